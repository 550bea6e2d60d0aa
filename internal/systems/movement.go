package systems

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
)

// MoveKind - что произойдет, если пойти на клетку.
type MoveKind string

const (
	MoveStep   MoveKind = "step"   // обычный ход на пустую клетку
	MoveAttack MoveKind = "attack" // бой с вражеской фигурой
	MoveSmash  MoveKind = "smash"  // попытка разрушить препятствие
	MoveSwap   MoveKind = "swap"   // обмен местами (хрустальный шар)
	MoveLance  MoveKind = "lance"  // прыжок-атака копьем (с преимуществом)
)

// Move - одна допустимая клетка назначения для фигуры.
type Move struct {
	To   domain.Square `json:"to"`
	Kind MoveKind      `json:"kind"`
}

// IsCombat - приведет ли ход к броскам кубиков.
func (m Move) IsCombat() bool {
	return m.Kind == MoveAttack || m.Kind == MoveSmash || m.Kind == MoveLance
}

// Направления скольжения
var (
	rookDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	kingDirs   = [][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	knightDirs = [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// MovesFor возвращает все допустимые клетки назначения для фигуры в (x, y).
// Пустая клетка или недееспособная фигура - пустой результат.
// Фигура под маскировкой ходит как пешка: иначе её выдал бы первый же ход.
func MovesFor(b *domain.Board, x, y int) []Move {
	p := b.PieceAt(x, y)
	if p == nil || p.Incapacitated() {
		return nil
	}

	var moves []Move
	switch p.Type {
	case domain.King:
		moves = stepperMoves(b, p, x, y, kingDirs[:])
	case domain.Knight:
		moves = stepperMoves(b, p, x, y, knightDirs[:])
	case domain.Queen:
		moves = sliderMoves(b, p, x, y, append(append([][2]int{}, rookDirs...), bishopDirs...))
	case domain.Rook:
		moves = sliderMoves(b, p, x, y, rookDirs[:])
	case domain.Bishop:
		moves = sliderMoves(b, p, x, y, bishopDirs[:])
	case domain.Pawn:
		moves = pawnMoves(b, p, x, y)
	}

	// Предметы добавляют ходы поверх базовых
	switch p.Equip {
	case domain.Lance:
		moves = append(moves, lanceMoves(b, p, x, y)...)
	case domain.CrystalBall:
		moves = append(moves, swapMoves(b, p, x, y)...)
	}

	return moves
}

// KingMovesIgnoringStun повторяет базовые ходы короля, но без раннего
// выхода по оглушению. Нужна единственно для различения "мат" и
// "пропуск хода": оглушенный король с теоретическим путем к спасению
// не проигрывает партию.
func KingMovesIgnoringStun(b *domain.Board, x, y int) []Move {
	p := b.PieceAt(x, y)
	if p == nil || p.Type != domain.King {
		return nil
	}
	return stepperMoves(b, p, x, y, kingDirs[:])
}

// stepperMoves - ходы "шагающих" фигур (король, конь): каждый сдвиг
// проверяется независимо.
func stepperMoves(b *domain.Board, p *domain.Piece, x, y int, dirs [][2]int) []Move {
	var moves []Move
	for _, d := range dirs {
		tx, ty := x+d[0], y+d[1]
		if !b.In(tx, ty) {
			continue
		}
		if m, ok := classify(b, p, tx, ty); ok {
			moves = append(moves, m)
		}
	}
	return moves
}

// sliderMoves - скольжение до первого занятого поля.
// Враг или препятствие включаются в результат (их можно атаковать),
// союзник - нет.
func sliderMoves(b *domain.Board, p *domain.Piece, x, y int, dirs [][2]int) []Move {
	var moves []Move
	for _, d := range dirs {
		for tx, ty := x+d[0], y+d[1]; b.In(tx, ty); tx, ty = tx+d[0], ty+d[1] {
			other := b.PieceAt(tx, ty)
			if other != nil {
				if other.Color != p.Color {
					moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveAttack})
				}
				break
			}
			if b.ObstacleAt(tx, ty) != domain.ObstacleNone {
				moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveSmash})
				break
			}
			moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveStep})
		}
	}
	return moves
}

// pawnMoves - шаг вперед только на полностью свободную клетку,
// взятия по диагонали (фигуры и препятствия).
func pawnMoves(b *domain.Board, p *domain.Piece, x, y int) []Move {
	var moves []Move
	fwd := p.Color.PawnDir()

	tx, ty := x, y+fwd
	if b.In(tx, ty) && b.PieceAt(tx, ty) == nil && b.ObstacleAt(tx, ty) == domain.ObstacleNone {
		moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveStep})
	}

	for _, dx := range []int{-1, 1} {
		tx, ty := x+dx, y+fwd
		if !b.In(tx, ty) {
			continue
		}
		if other := b.PieceAt(tx, ty); other != nil {
			if other.Color != p.Color {
				moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveAttack})
			}
			continue
		}
		if b.ObstacleAt(tx, ty) != domain.ObstacleNone {
			moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveSmash})
		}
	}
	return moves
}

// lanceMoves - разовый прыжок копья: две клетки вперед, промежуточная
// полностью чиста, на посадке враг или препятствие.
func lanceMoves(b *domain.Board, p *domain.Piece, x, y int) []Move {
	fwd := p.Color.PawnDir()
	mx, my := x, y+fwd
	tx, ty := x, y+2*fwd
	if !b.In(mx, my) || !b.In(tx, ty) {
		return nil
	}
	if b.PieceAt(mx, my) != nil || b.ObstacleAt(mx, my) != domain.ObstacleNone {
		return nil
	}
	if other := b.PieceAt(tx, ty); other != nil && other.Color != p.Color {
		return []Move{{To: domain.Square{X: tx, Y: ty}, Kind: MoveLance}}
	}
	if b.PieceAt(tx, ty) == nil && b.ObstacleAt(tx, ty) != domain.ObstacleNone {
		return []Move{{To: domain.Square{X: tx, Y: ty}, Kind: MoveLance}}
	}
	return nil
}

// swapMoves - хрустальный шар: обмен с соседним союзником или придворным.
func swapMoves(b *domain.Board, p *domain.Piece, x, y int) []Move {
	var moves []Move
	for _, d := range kingDirs {
		tx, ty := x+d[0], y+d[1]
		if !b.In(tx, ty) {
			continue
		}
		if other := b.PieceAt(tx, ty); other != nil && other.Color == p.Color {
			moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveSwap})
			continue
		}
		if b.PieceAt(tx, ty) == nil && b.ObstacleAt(tx, ty) == domain.Courtier {
			moves = append(moves, Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveSwap})
		}
	}
	return moves
}

// classify решает, каким ходом будет заход фигуры p на клетку (tx, ty).
func classify(b *domain.Board, p *domain.Piece, tx, ty int) (Move, bool) {
	if other := b.PieceAt(tx, ty); other != nil {
		if other.Color == p.Color {
			return Move{}, false
		}
		return Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveAttack}, true
	}
	if b.ObstacleAt(tx, ty) != domain.ObstacleNone {
		return Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveSmash}, true
	}
	return Move{To: domain.Square{X: tx, Y: ty}, Kind: MoveStep}, true
}
