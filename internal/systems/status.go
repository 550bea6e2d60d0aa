package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

// DecrementStunFor списывает один ход оглушения у фигур стороны side.
// Вызывается ровно один раз - когда сторона side закончила свой ход.
// Чужие фигуры не трогаем: их оглушение тикает на их ходу.
// Измотанность снимается за один пропущенный ход, тень - чистая
// косметика, но тоже тикает здесь.
func DecrementStunFor(b *domain.Board, side domain.Color) {
	b.ForEachPiece(func(x, y int, p *domain.Piece) {
		if p.Color != side {
			return
		}
		if p.Stun > 0 {
			p.Stun--
		}
		if p.Exhausted {
			p.Exhausted = false
		}
		if p.Shadow > 0 {
			p.Shadow--
		}
	})
}

// OscillationLimit - столько повторов маятника A-B подряд выматывают фигуру.
const OscillationLimit = 3

// IsOscillating проверяет хвост маршрута фигуры на маятник:
// шесть последних клеток вида A-B-A-B-A-B (три полных повтора).
// trail - клетки, на которых фигура побывала, в хронологическом порядке.
func IsOscillating(trail []domain.Square) bool {
	n := len(trail)
	need := OscillationLimit * 2
	if n < need {
		return false
	}
	tail := trail[n-need:]
	a, b := tail[0], tail[1]
	if a == b {
		return false
	}
	for i := 2; i < need; i++ {
		want := a
		if i%2 == 1 {
			want = b
		}
		if tail[i] != want {
			return false
		}
	}
	return true
}

// StunAdjacent оглушает всех соседей клетки sq (своих и чужих) на
// turns ходов. Так срабатывает проклятие на смерти носителя.
func StunAdjacent(b *domain.Board, sq domain.Square, turns int) []*domain.Piece {
	var hit []*domain.Piece
	for _, d := range kingDirs {
		p := b.PieceAt(sq.X+d[0], sq.Y+d[1])
		if p == nil {
			continue
		}
		if p.Stun < turns {
			p.Stun = turns
		}
		hit = append(hit, p)
	}
	return hit
}
