package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

// Modifier - один именованный вклад в итог броска (для интерфейса).
type Modifier struct {
	Source string `json:"source"`
	Value  int    `json:"value"`
}

// rollProfile - полное описание того, как сторона будет бросать кубик:
// преимущество, форсированное значение и сумма модификаторов.
// Эта модель ОБЩАЯ для боевого резолвера и калькулятора шансов:
// расхождение между ними сломало бы и интерфейс, и оценки бота.
type rollProfile struct {
	Advantage     bool
	AdvantageFrom string // "king", "lance", "torch", "veteran"
	Forced        int    // 0 - бросок честный; иначе кубик зажат в это значение
	Mod           int
	Mods          []Modifier
}

// attackerProfile собирает профиль броска атакующего в бою фигур.
// Порядок проверки преимущества фиксирован: король, выпад копьем,
// факел в лес, ветеран. Коса против пешки форсирует максимум
// поверх любого преимущества.
func attackerProfile(b *domain.Board, from, to domain.Square, advantage bool) rollProfile {
	pr := rollProfile{}
	attacker := b.PieceAt(from.X, from.Y)
	if attacker == nil {
		return pr
	}
	defender := b.PieceAt(to.X, to.Y)

	switch {
	case attacker.Type == domain.King:
		pr.Advantage, pr.AdvantageFrom = true, "king"
	case advantage:
		pr.Advantage, pr.AdvantageFrom = true, "lance"
	case attacker.Equip == domain.Torch && b.TerrainAt(to.X, to.Y) == domain.Forest:
		pr.Advantage, pr.AdvantageFrom = true, "torch"
	case attacker.Veteran():
		pr.Advantage, pr.AdvantageFrom = true, "veteran"
	}

	// Коса видит пешку по отображаемому типу: замаскированную ладью
	// она тоже "считает" пешкой, в этом и слабость маскировки.
	if attacker.Equip == domain.Scythe && defender != nil && defender.Type == domain.Pawn {
		pr.Forced = 6
	}

	if attacker.Equip == domain.Sword {
		pr.Mod++
		pr.Mods = append(pr.Mods, Modifier{Source: "sword", Value: 1})
	}
	if support := SupportCount(b, from, to, attacker.Color); support > 0 {
		pr.Mod += support
		pr.Mods = append(pr.Mods, Modifier{Source: "support", Value: support})
	}
	return pr
}

// defenderProfile собирает профиль броска защитника.
// Оглушение важнее всего (кубик зажат в единицу), затем коса против
// пешки (зажат в шестерку), затем преимущество ветерана.
func defenderProfile(b *domain.Board, from, to domain.Square) rollProfile {
	pr := rollProfile{}
	defender := b.PieceAt(to.X, to.Y)
	if defender == nil {
		return pr
	}
	attacker := b.PieceAt(from.X, from.Y)

	if defender.Veteran() {
		pr.Advantage, pr.AdvantageFrom = true, "veteran"
	}
	switch {
	case defender.Incapacitated():
		pr.Forced = 1
	case defender.Equip == domain.Scythe && attacker != nil && attacker.Type == domain.Pawn:
		pr.Forced = 6
	}

	// Щит и знамя не складываются: максимум +1 от одного из них
	switch {
	case defender.Equip == domain.Shield:
		pr.Mod++
		pr.Mods = append(pr.Mods, Modifier{Source: "shield", Value: 1})
	case bannerAdjacent(b, to, defender.Color):
		pr.Mod++
		pr.Mods = append(pr.Mods, Modifier{Source: "banner", Value: 1})
	}

	if t := b.TerrainAt(to.X, to.Y); t.DefenseMod() != 0 {
		pr.Mod += t.DefenseMod()
		pr.Mods = append(pr.Mods, Modifier{Source: string(t), Value: t.DefenseMod()})
	}
	return pr
}

// obstacleProfile - профиль атакующего против препятствия.
// Преимущество дают только король и выпад копьем; рельеф и стаж
// ветерана на снос не влияют. Меч и поддержка считаются как обычно.
func obstacleProfile(b *domain.Board, from, to domain.Square, advantage bool) rollProfile {
	pr := rollProfile{}
	attacker := b.PieceAt(from.X, from.Y)
	if attacker == nil {
		return pr
	}

	switch {
	case attacker.Type == domain.King:
		pr.Advantage, pr.AdvantageFrom = true, "king"
	case advantage:
		pr.Advantage, pr.AdvantageFrom = true, "lance"
	}

	if attacker.Equip == domain.Sword {
		pr.Mod++
		pr.Mods = append(pr.Mods, Modifier{Source: "sword", Value: 1})
	}
	if support := SupportCount(b, from, to, attacker.Color); support > 0 {
		pr.Mod += support
		pr.Mods = append(pr.Mods, Modifier{Source: "support", Value: support})
	}
	return pr
}

// bannerAdjacent - стоит ли рядом с клеткой sq союзник со знаменем.
func bannerAdjacent(b *domain.Board, sq domain.Square, side domain.Color) bool {
	for _, d := range kingDirs {
		p := b.PieceAt(sq.X+d[0], sq.Y+d[1])
		if p != nil && p.Color == side && p.Equip == domain.Banner {
			return true
		}
	}
	return false
}
