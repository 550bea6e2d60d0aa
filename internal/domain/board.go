package domain

import "strings"

// Board - полное состояние поля боя: фигуры, рельеф и препятствия.
// Все решетки индексируются [y][x]. Доступ за границы не паникует,
// а возвращает "пусто" - ядро обязано мягко деградировать.
type Board struct {
	Size      int
	Cells     [][]*Piece
	Terrain   [][]Terrain
	Obstacles [][]Obstacle

	// EscapeRow - ряд побега для сценария "увести короля".
	// -1, если сценарий выключен. На этом ряду рельеф не генерируется.
	EscapeRow int

	// BellGuardID - ID короля, которого охраняет колокол.
	// Пока на доске стоит хоть один колокол, этот король неуязвим.
	BellGuardID string
}

// NewBoard создает пустую доску size x size.
func NewBoard(size int) *Board {
	b := &Board{
		Size:      size,
		Cells:     make([][]*Piece, size),
		Terrain:   make([][]Terrain, size),
		Obstacles: make([][]Obstacle, size),
		EscapeRow: -1,
	}
	for y := 0; y < size; y++ {
		b.Cells[y] = make([]*Piece, size)
		b.Terrain[y] = make([]Terrain, size)
		b.Obstacles[y] = make([]Obstacle, size)
	}
	return b
}

// In проверяет, что клетка внутри доски.
func (b *Board) In(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.Size && y < b.Size
}

// PieceAt возвращает фигуру в клетке или nil (в том числе за границами).
func (b *Board) PieceAt(x, y int) *Piece {
	if !b.In(x, y) {
		return nil
	}
	return b.Cells[y][x]
}

// TerrainAt возвращает рельеф клетки (за границами - пусто).
func (b *Board) TerrainAt(x, y int) Terrain {
	if !b.In(x, y) {
		return TerrainNone
	}
	return b.Terrain[y][x]
}

// ObstacleAt возвращает препятствие клетки (за границами - пусто).
func (b *Board) ObstacleAt(x, y int) Obstacle {
	if !b.In(x, y) {
		return ObstacleNone
	}
	return b.Obstacles[y][x]
}

// SetPiece ставит фигуру в клетку. За границами - тихий no-op.
func (b *Board) SetPiece(x, y int, p *Piece) {
	if !b.In(x, y) {
		return
	}
	b.Cells[y][x] = p
}

// RemovePiece убирает фигуру из клетки и возвращает её.
func (b *Board) RemovePiece(x, y int) *Piece {
	if !b.In(x, y) {
		return nil
	}
	p := b.Cells[y][x]
	b.Cells[y][x] = nil
	return p
}

// RemoveObstacle сносит препятствие в клетке.
func (b *Board) RemoveObstacle(x, y int) {
	if !b.In(x, y) {
		return
	}
	b.Obstacles[y][x] = ObstacleNone
}

// FindKing ищет короля стороны c. Маскировка короля невозможна,
// поэтому достаточно отображаемого типа.
func (b *Board) FindKing(c Color) (Square, *Piece, bool) {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			p := b.Cells[y][x]
			if p != nil && p.Color == c && p.Type == King {
				return Square{X: x, Y: y}, p, true
			}
		}
	}
	return Square{}, nil, false
}

// ForEachPiece обходит все фигуры доски.
func (b *Board) ForEachPiece(fn func(x, y int, p *Piece)) {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if p := b.Cells[y][x]; p != nil {
				fn(x, y, p)
			}
		}
	}
}

// Pieces возвращает все фигуры стороны c с их клетками.
func (b *Board) Pieces(c Color) []PlacedPiece {
	var out []PlacedPiece
	b.ForEachPiece(func(x, y int, p *Piece) {
		if p.Color == c {
			out = append(out, PlacedPiece{Square: Square{X: x, Y: y}, Piece: p})
		}
	})
	return out
}

// PlacedPiece - фигура вместе с клеткой, на которой она стоит.
type PlacedPiece struct {
	Square Square
	Piece  *Piece
}

// BellStanding - стоит ли на доске хоть один колокол.
func (b *Board) BellStanding() bool {
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			if b.Obstacles[y][x] == Bell {
				return true
			}
		}
	}
	return false
}

// BellProtected - защищен ли этот защитник колоколом прямо сейчас.
func (b *Board) BellProtected(p *Piece) bool {
	return p != nil && b.BellGuardID != "" && p.ID == b.BellGuardID && b.BellStanding()
}

// Clone делает глубокую копию доски вместе с фигурами.
// Нужна боту и проверке шаха: ход "проигрывается" на копии.
func (b *Board) Clone() *Board {
	cb := NewBoard(b.Size)
	cb.EscapeRow = b.EscapeRow
	cb.BellGuardID = b.BellGuardID
	for y := 0; y < b.Size; y++ {
		for x := 0; x < b.Size; x++ {
			cb.Cells[y][x] = b.Cells[y][x].Clone()
			cb.Terrain[y][x] = b.Terrain[y][x]
			cb.Obstacles[y][x] = b.Obstacles[y][x]
		}
	}
	return cb
}

// Dump - текстовый снимок доски для логов и отладочных ручек.
func (b *Board) Dump() string {
	var sb strings.Builder
	for y := b.Size - 1; y >= 0; y-- {
		for x := 0; x < b.Size; x++ {
			switch {
			case b.Cells[y][x] != nil:
				p := b.Cells[y][x]
				sb.WriteString(p.Type.Glyph(p.Color))
			case b.Obstacles[y][x] != ObstacleNone:
				sb.WriteString("#")
			case b.Terrain[y][x] == Forest:
				sb.WriteString("&")
			case b.Terrain[y][x] == Water:
				sb.WriteString("~")
			default:
				sb.WriteString(".")
			}
			sb.WriteString(" ")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
