package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"
)

// SideResult - бросок одной стороны боя со всей раскладкой для клиента.
type SideResult struct {
	// Roll - итоговое значение кубика (после преимущества и форсирования).
	Roll int `json:"roll"`
	// Total - кубик плюс все модификаторы.
	Total int `json:"total"`
	// Mods - именованные вклады в Total.
	Mods []Modifier `json:"mods,omitempty"`
	// History - все показанные кубики по порядку: честные броски,
	// а при форсировании последним дописано навязанное значение,
	// чтобы клиент крутил анимацию до него.
	History []int `json:"history"`
	// Forced - бросок был навязан (коса, оглушение). Такой бросок
	// нельзя перемолить.
	Forced bool `json:"forced"`
	// Advantage и AdvantageFrom - бросались два кубика, и почему.
	Advantage     bool   `json:"advantage,omitempty"`
	AdvantageFrom string `json:"advantageFrom,omitempty"`
}

// Outcome - результат боя фигура-против-фигуры.
// Это чистый расчет: доска здесь не трогается, применение результата -
// отдельная фаза (двухфазный бой нужен оркестратору для анимации).
type Outcome struct {
	Attacker SideResult `json:"attacker"`
	Defender SideResult `json:"defender"`
	// Win - победил атакующий (равенство в его пользу).
	Win bool `json:"win"`
	// BellSaved - защитника спас колокол: бой не состоялся,
	// кубики не бросались.
	BellSaved bool `json:"bellSaved,omitempty"`
}

// ObstacleOutcome - результат попытки снести препятствие.
type ObstacleOutcome struct {
	Attacker  SideResult      `json:"attacker"`
	Obstacle  domain.Obstacle `json:"obstacle"`
	Threshold int             `json:"threshold"`
	Win       bool            `json:"win"`
}

// Resolve разыгрывает бой фигуры из from против фигуры в to.
// advantage - внешний флаг преимущества (выпад копьем).
// Если одного из участников уже нет на месте (гонка интерфейса с
// концом партии), возвращается nil - бой тихо отменяется.
func Resolve(g *rng.Generator, b *domain.Board, from, to domain.Square, advantage bool) *Outcome {
	attacker := b.PieceAt(from.X, from.Y)
	defender := b.PieceAt(to.X, to.Y)
	if attacker == nil || defender == nil {
		return nil
	}

	// Король под колоколом неуязвим: бой не состоится вовсе.
	// Оба "броска" помечены форсированными, чтобы отрезать молитву.
	if b.BellProtected(defender) {
		return &Outcome{
			Attacker:  SideResult{Forced: true, Mods: []Modifier{{Source: "bell", Value: 0}}},
			Defender:  SideResult{Forced: true},
			Win:       false,
			BellSaved: true,
		}
	}

	atkPr := attackerProfile(b, from, to, advantage)
	defPr := defenderProfile(b, from, to)

	atk := castDice(g, atkPr)
	def := castDice(g, defPr)

	atk.Total = atk.Roll + atkPr.Mod
	def.Total = def.Roll + defPr.Mod

	return &Outcome{
		Attacker: atk,
		Defender: def,
		Win:      atk.Total >= def.Total,
	}
}

// ResolveObstacle разыгрывает снос препятствия в клетке to.
func ResolveObstacle(g *rng.Generator, b *domain.Board, from, to domain.Square, advantage bool) *ObstacleOutcome {
	attacker := b.PieceAt(from.X, from.Y)
	obstacle := b.ObstacleAt(to.X, to.Y)
	if attacker == nil || obstacle == domain.ObstacleNone {
		return nil
	}

	pr := obstacleProfile(b, from, to, advantage)
	atk := castDice(g, pr)
	atk.Total = atk.Roll + pr.Mod

	return &ObstacleOutcome{
		Attacker:  atk,
		Obstacle:  obstacle,
		Threshold: obstacle.Threshold(),
		Win:       atk.Total >= obstacle.Threshold(),
	}
}

// castDice бросает кубики по профилю. Честные броски всегда тянутся
// из генератора - даже когда итог форсирован. Поток случайности
// обязан сдвигаться одинаково независимо от надетых предметов,
// иначе сломается воспроизводимость по сиду.
func castDice(g *rng.Generator, pr rollProfile) SideResult {
	res := SideResult{
		Mods:          pr.Mods,
		Advantage:     pr.Advantage,
		AdvantageFrom: pr.AdvantageFrom,
	}

	first := g.Die()
	res.History = append(res.History, first)
	res.Roll = first

	if pr.Advantage {
		second := g.Die()
		res.History = append(res.History, second)
		if second > res.Roll {
			res.Roll = second
		}
	}

	if pr.Forced != 0 {
		res.Roll = pr.Forced
		res.Forced = true
		res.History = append(res.History, pr.Forced)
	}
	return res
}
