package engine

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"
)

// Standing - положение стороны перед ее ходом.
type Standing string

const (
	// Playing - есть допустимые ходы, партия идет.
	Playing Standing = "playing"
	// Check - король под боем, но спасающие ходы есть.
	Check Standing = "check"
	// Checkmate - король под боем, спасения нет даже без оглушений.
	Checkmate Standing = "checkmate"
	// SkipStunned - ходов нет, но лишь из-за оглушения: ход пропускается.
	SkipStunned Standing = "skip_stunned"
	// SkipNoMoves - ходов нет и без шаха: ход пропускается.
	SkipNoMoves Standing = "skip_no_moves"
)

// EvaluateStanding определяет положение стороны side.
// Ключевая развилка: сторона без ходов под шахом - мат, ТОЛЬКО если
// у короля нет безопасных клеток и при снятом оглушении. Оглушенный
// король с путем к спасению - это пропуск хода, а не конец партии.
func EvaluateStanding(b *domain.Board, side domain.Color) Standing {
	inCheck := systems.InCheck(b, side)
	hasEscape := hasLegalMove(b, side, inCheck)

	if inCheck {
		if hasEscape {
			return Check
		}
		if kingEscapesIgnoringStun(b, side) {
			return SkipStunned
		}
		return Checkmate
	}

	if hasEscape {
		return Playing
	}
	if sideIsStunned(b, side) {
		return SkipStunned
	}
	return SkipNoMoves
}

// hasLegalMove ищет хотя бы один допустимый ход; под шахом ход
// обязан снимать угрозу с короля (проверяется на копии доски).
func hasLegalMove(b *domain.Board, side domain.Color, inCheck bool) bool {
	for _, pp := range b.Pieces(side) {
		for _, m := range systems.MovesFor(b, pp.Square.X, pp.Square.Y) {
			if !inCheck {
				return true
			}
			if evadesCheck(b, side, pp.Square, m) {
				return true
			}
		}
	}
	return false
}

func evadesCheck(b *domain.Board, side domain.Color, from domain.Square, m systems.Move) bool {
	sim := b.Clone()
	switch m.Kind {
	case systems.MoveSwap:
		if other := sim.PieceAt(m.To.X, m.To.Y); other != nil {
			p := sim.RemovePiece(from.X, from.Y)
			sim.SetPiece(from.X, from.Y, other)
			sim.SetPiece(m.To.X, m.To.Y, p)
		} else {
			p := sim.RemovePiece(from.X, from.Y)
			sim.RemoveObstacle(m.To.X, m.To.Y)
			sim.SetPiece(m.To.X, m.To.Y, p)
		}
	case systems.MoveSmash:
		// Снос препятствия короля не спасает, клетка атакующего не меняется.
		return false
	default:
		p := sim.RemovePiece(from.X, from.Y)
		sim.RemovePiece(m.To.X, m.To.Y)
		sim.SetPiece(m.To.X, m.To.Y, p)
	}
	return !systems.InCheck(sim, side)
}

// kingEscapesIgnoringStun - были бы у короля безопасные клетки,
// не будь он оглушен.
func kingEscapesIgnoringStun(b *domain.Board, side domain.Color) bool {
	sq, _, ok := b.FindKing(side)
	if !ok {
		return false
	}
	for _, m := range systems.KingMovesIgnoringStun(b, sq.X, sq.Y) {
		if evadesCheck(b, side, sq, m) {
			return true
		}
	}
	return false
}

func sideIsStunned(b *domain.Board, side domain.Color) bool {
	for _, pp := range b.Pieces(side) {
		if pp.Piece.Incapacitated() {
			return true
		}
	}
	return false
}
