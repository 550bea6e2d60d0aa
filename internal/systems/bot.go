package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"
)

// Behavior - боевой профиль бота. Меняет не правила, а вкусы:
// какие ходы ценятся и насколько широко бот готов "ошибаться".
type Behavior string

const (
	Aggressive Behavior = "aggressive"
	Defensive  Behavior = "defensive"
	Balanced   Behavior = "balanced"
)

// behaviorParams - допуск финального отбора и нижний порог оценки.
type behaviorParams struct {
	// tolerance - ширина полосы вокруг лучшей оценки, из которой
	// ход выбирается случайно. Узкая полоса = почти жадный бот.
	tolerance float64
	// floor - ходы хуже этого порога отбрасываются, пока есть другие.
	floor float64
}

func paramsFor(behavior Behavior) behaviorParams {
	switch behavior {
	case Aggressive:
		return behaviorParams{tolerance: 0.35, floor: -3}
	case Defensive:
		return behaviorParams{tolerance: 0.05, floor: -0.75}
	default:
		return behaviorParams{tolerance: 0.15, floor: -1.5}
	}
}

// BotMove - выбранный ботом ход с итоговой оценкой.
type BotMove struct {
	From  domain.Square `json:"from"`
	To    domain.Square `json:"to"`
	Kind  MoveKind      `json:"kind"`
	Score float64       `json:"score"`
}

// ChooseMove перебирает все допустимые ходы стороны side, оценивает
// каждый под профилем поведения и выбирает случайный из полосы лучших.
// Под шахом пул сужается до настоящих спасающих ходов; если их нет,
// возвращается nil (мат - с оговоркой про оглушение, см. движок).
func ChooseMove(b *domain.Board, side domain.Color, g *rng.Generator, behavior Behavior) *BotMove {
	params := paramsFor(behavior)
	inCheck := InCheck(b, side)

	var candidates []BotMove
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			p := b.Cells[y][x]
			if p == nil || p.Color != side {
				continue
			}
			from := domain.Square{X: x, Y: y}
			for _, m := range MovesFor(b, x, y) {
				if skipMove(b, side, m) {
					continue
				}
				// Под шахом годятся только ходы, после которых
				// (считая бой выигранным) король выходит из-под боя.
				if inCheck {
					after := simulate(b, from, m)
					if InCheck(after, side) {
						continue
					}
				}
				score := scoreMove(b, side, from, m, g, behavior)
				candidates = append(candidates, BotMove{From: from, To: m.To, Kind: m.Kind, Score: score})
			}
		}
	}

	if len(candidates) == 0 {
		return nil
	}

	// Порог отсечения: совсем плохие ходы выпадают, пока есть выбор
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if c.Score >= params.floor {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		filtered = candidates
	}

	best := filtered[0].Score
	for _, c := range filtered {
		if c.Score > best {
			best = c.Score
		}
	}

	var pool []BotMove
	for _, c := range filtered {
		if c.Score >= best-params.tolerance {
			pool = append(pool, c)
		}
	}

	chosen := pool[g.Intn(len(pool))]
	return &chosen
}

// skipMove - табу, которые не зависят от оценки.
// Черные никогда не сносят колокол, охраняющий их собственного короля.
func skipMove(b *domain.Board, side domain.Color, m Move) bool {
	if m.Kind != MoveSmash && m.Kind != MoveLance {
		return false
	}
	if b.ObstacleAt(m.To.X, m.To.Y) != domain.Bell {
		return false
	}
	if side != domain.Black || b.BellGuardID == "" {
		return false
	}
	_, king, ok := b.FindKing(domain.Black)
	return ok && king.ID == b.BellGuardID
}

// scoreMove - оценка одного хода. База: матожидание обмена для боев,
// маленький случайный сдвиг и эвристики для тихих ходов. Поверх -
// поправки профиля поведения.
func scoreMove(b *domain.Board, side domain.Color, from domain.Square, m Move, g *rng.Generator, behavior Behavior) float64 {
	mover := b.PieceAt(from.X, from.Y)
	own := mover.TrueType().Value()
	enemy := side.Opponent()
	target := b.PieceAt(m.To.X, m.To.Y)

	var score float64
	var wp float64
	isPieceCapture := false

	switch {
	case target != nil && m.IsCombat():
		isPieceCapture = true
		wp = WinProbability(b, from, m.To, m.Kind == MoveLance)
		// Ценность по отображаемому типу: сквозь маскировку бот
		// не подглядывает.
		gained := target.Type.Value()
		if mover.Equip == domain.Staff {
			// Обращение посохом - двойной выигрыш: враг минус, союзник плюс
			gained = target.Type.Value() + own
		}
		if target.Equip == domain.Skull {
			// Череп заберет нас с собой: это размен, а не захват
			gained = target.Type.Value() - own
		}
		score = wp*gained - (1-wp)*own

	case m.Kind == MoveSmash || m.Kind == MoveLance:
		wp = ObstacleWinProbability(b, from, m.To, m.Kind == MoveLance)
		score = wp - (1-wp)*0.1

	default:
		// Тихий ход: случайная крошка, чтобы равные ходы чередовались
		score = g.Next() * 0.1
		if mover.Type == domain.Pawn && (m.To.Y-from.Y)*side.PawnDir() > 0 {
			score += 0.15
		}
		threatBefore := Threatened(b, from, enemy)
		after := simulate(b, from, m)
		threatAfter := Threatened(after, m.To, enemy)
		if threatAfter && !threatBefore {
			score -= 0.25 * own
		}
		if threatBefore && !threatAfter {
			score += 0.2 * own
		}
	}

	switch behavior {
	case Aggressive:
		score += aggressiveBias(b, side, from, m, isPieceCapture, wp)
	case Defensive:
		score += defensiveBias(b, side, from, m, mover, own, isPieceCapture, wp)
	default:
		score += balancedBias(b, from, m, target, wp)
	}
	return score
}

// aggressiveBias - профиль "в атаку": ценит размены, давление на
// короля и движение вперед.
func aggressiveBias(b *domain.Board, side domain.Color, from domain.Square, m Move, isPieceCapture bool, wp float64) float64 {
	var bonus float64
	if isPieceCapture && wp >= 0.58 {
		bonus += 0.5
	}

	enemy := side.Opponent()
	after := simulate(b, from, m)
	if ekSq, _, ok := after.FindKing(enemy); ok {
		// Давление: с новой клетки достаем их короля
		if Attacks(after, m.To.X, m.To.Y, ekSq.X, ekSq.Y) {
			killChance := WinProbability(after, m.To, ekSq, false)
			bonus += 1.5 * killChance
			if defendersAround(after, ekSq, enemy) == 0 {
				// Короля никто не прикрывает - дожимаем
				bonus += 0.5
			}
		}
		// Сокращение дистанции до короля
		bonus += 0.06 * float64(chebyshev(from, ekSq)-chebyshev(m.To, ekSq))
	}

	// Движение вперед само по себе
	if progress := (m.To.Y - from.Y) * side.PawnDir(); progress > 0 {
		bonus += 0.05 * float64(progress)
	}
	return bonus
}

// defensiveBias - профиль "держим строй": наказывает рискованные
// размены и все, что оголяет короля.
func defensiveBias(b *domain.Board, side domain.Color, from domain.Square, m Move, mover *domain.Piece, own float64, isPieceCapture bool, wp float64) float64 {
	var bonus float64
	if isPieceCapture && wp < 0.7 {
		bonus -= 0.6
	}

	enemy := side.Opponent()
	after := simulate(b, from, m)

	// Риск подставить ценную фигуру
	if Threatened(after, m.To, enemy) {
		bonus -= 0.08 * own
	}

	// Захват, открывающий собственного короля - худшее, что можно сделать
	if m.IsCombat() && InCheck(after, side) {
		bonus -= 1.2
	}

	kingBefore := InCheck(b, side)
	if kSq, _, ok := after.FindKing(side); ok {
		// Король дома, на своем краю
		backRank := 0
		if side == domain.Black {
			backRank = b.Size - 1
		}
		if mover.Type == domain.King && m.To.Y == backRank {
			bonus += 0.3
		}

		// Свита рядом с королем
		for _, d := range kingDirs {
			p := after.PieceAt(kSq.X+d[0], kSq.Y+d[1])
			if p != nil && p.Color == side {
				bonus += 0.05
			}
		}

		// Каждый враг, достающий короля после хода, - штраф
		bonus -= 0.25 * float64(attackersOn(after, kSq, enemy, kSq))

		// Перекрыли существующую линию атаки на короля
		if kingBefore && mover.Type != domain.King && !InCheck(after, side) {
			bonus += 0.8
		}
	}
	return bonus
}

// balancedBias - профиль по умолчанию: центр и трезвые попытки
// убить короля.
func balancedBias(b *domain.Board, from domain.Square, m Move, target *domain.Piece, wp float64) float64 {
	var bonus float64

	// Тяготение к центру доски
	c := float64(b.Size-1) / 2
	dx, dy := float64(m.To.X)-c, float64(m.To.Y)-c
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	dist := dx
	if dy > dist {
		dist = dy
	}
	if c > 0 {
		bonus += 0.05 * (1 - dist/c)
	}

	if target != nil && target.Type == domain.King && wp >= 0.65 {
		bonus += 1.0
	}
	return bonus
}

// simulate проигрывает ход на копии доски в предположении, что бой
// (если он есть) выигран. Оригинал не трогается.
func simulate(b *domain.Board, from domain.Square, m Move) *domain.Board {
	sim := b.Clone()
	switch m.Kind {
	case MoveSwap:
		moved := sim.RemovePiece(from.X, from.Y)
		if other := sim.RemovePiece(m.To.X, m.To.Y); other != nil {
			sim.SetPiece(from.X, from.Y, other)
		} else if sim.ObstacleAt(m.To.X, m.To.Y) == domain.Courtier {
			sim.Obstacles[m.To.Y][m.To.X] = domain.ObstacleNone
			sim.Obstacles[from.Y][from.X] = domain.Courtier
		}
		sim.SetPiece(m.To.X, m.To.Y, moved)

	case MoveSmash:
		// Снос: препятствие исчезает, фигура остается на месте
		sim.RemoveObstacle(m.To.X, m.To.Y)

	default:
		moved := sim.RemovePiece(from.X, from.Y)
		if sim.PieceAt(m.To.X, m.To.Y) != nil {
			sim.RemovePiece(m.To.X, m.To.Y)
		}
		if sim.ObstacleAt(m.To.X, m.To.Y) != domain.ObstacleNone {
			// Выпад копья в препятствие: снесли и заняли клетку
			sim.RemoveObstacle(m.To.X, m.To.Y)
		}
		sim.SetPiece(m.To.X, m.To.Y, moved)
	}
	return sim
}

// attackersOn - сколько фигур стороны by бьют клетку sq.
// Клетка exclude не учитывается (обычно это сам король).
func attackersOn(b *domain.Board, sq domain.Square, by domain.Color, exclude domain.Square) int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if x == exclude.X && y == exclude.Y {
				continue
			}
			p := b.Cells[y][x]
			if p == nil || p.Color != by {
				continue
			}
			if Attacks(b, x, y, sq.X, sq.Y) {
				count++
			}
		}
	}
	return count
}

// defendersAround - сколько фигур стороны side стоят вплотную к клетке
// sq и могут за нее вступиться. Свои фигуры свою клетку не "бьют",
// поэтому прикрытие короля считается по соседям, а не через attackersOn.
func defendersAround(b *domain.Board, sq domain.Square, side domain.Color) int {
	count := 0
	for _, d := range kingDirs {
		p := b.PieceAt(sq.X+d[0], sq.Y+d[1])
		if p != nil && p.Color == side && p.Type != domain.King {
			count++
		}
	}
	return count
}

// chebyshev - "королевское" расстояние между клетками.
func chebyshev(a, b domain.Square) int {
	dx, dy := a.X-b.X, a.Y-b.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	if dy > dx {
		return dy
	}
	return dx
}
