package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

// Attacks - может ли фигура в (sx, sy) атаковать клетку (tx, ty).
// Обмен хрустальным шаром атакой не считается; всё остальное, что
// движок ходов выдал на эту клетку, считается угрозой - препятствия
// здесь не особый случай.
func Attacks(b *domain.Board, sx, sy, tx, ty int) bool {
	for _, m := range MovesFor(b, sx, sy) {
		if m.Kind == MoveSwap {
			continue
		}
		if m.To.X == tx && m.To.Y == ty {
			return true
		}
	}
	return false
}

// Threatened - бьет ли хоть одна фигура стороны by клетку sq.
func Threatened(b *domain.Board, sq domain.Square, by domain.Color) bool {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			p := b.Cells[y][x]
			if p == nil || p.Color != by {
				continue
			}
			if Attacks(b, x, y, sq.X, sq.Y) {
				return true
			}
		}
	}
	return false
}

// SupportCount - сколько союзников (кроме самого атакующего в from)
// тоже могут атаковать клетку to. Каждый дает +1 к итогу атаки
// и рисуется бейджем "+N" в интерфейсе.
func SupportCount(b *domain.Board, from, to domain.Square, side domain.Color) int {
	count := 0
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if x == from.X && y == from.Y {
				continue
			}
			p := b.Cells[y][x]
			if p == nil || p.Color != side {
				continue
			}
			if Attacks(b, x, y, to.X, to.Y) {
				count++
			}
		}
	}
	return count
}

// InCheck - находится ли король стороны side под боем.
// Если короля нет на доске (партия уже решена), шаха нет.
func InCheck(b *domain.Board, side domain.Color) bool {
	kingSq, _, ok := b.FindKing(side)
	if !ok {
		return false
	}
	return Threatened(b, kingSq, side.Opponent())
}
