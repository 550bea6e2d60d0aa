package engine

import (
	"fmt"
	"time"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"
)

// BuildBoardView собирает снимок доски для клиента, играющего за
// белых: дальние ряды скрыты туманом, маскировка черных не раскрыта.
func BuildBoardView(g *Game) *api.BoardView {
	view := &api.BoardView{
		Size:       g.Board.Size,
		EscapeRow:  g.Board.EscapeRow,
		FogFromRow: fogFromRow(g),
	}

	for y := 0; y < g.Board.Size; y++ {
		for x := 0; x < g.Board.Size; x++ {
			if t := g.Board.Terrain[y][x]; t != domain.TerrainNone {
				view.Terrain = append(view.Terrain, api.CellView{X: x, Y: y, Kind: string(t)})
			}
			if o := g.Board.Obstacles[y][x]; o != domain.ObstacleNone {
				view.Obstacles = append(view.Obstacles, api.CellView{X: x, Y: y, Kind: string(o)})
			}
		}
	}

	g.Board.ForEachPiece(func(x, y int, p *domain.Piece) {
		if view.FogFromRow >= 0 && y >= view.FogFromRow && p.Color == domain.Black {
			return
		}
		view.Pieces = append(view.Pieces, pieceView(x, y, p))
	})
	return view
}

// fogFromRow - первый скрытый ряд. Факел любой белой фигуры
// отодвигает туман на один ряд дальше.
func fogFromRow(g *Game) int {
	if g.Level.FogRows <= 0 {
		return -1
	}
	from := g.Board.Size - g.Level.FogRows
	for _, pp := range g.Board.Pieces(domain.White) {
		if pp.Piece.Equip == domain.Torch {
			from++
			break
		}
	}
	if from >= g.Board.Size {
		return -1
	}
	return from
}

// pieceView превращает фигуру в DTO. Для черной фигуры под
// маскировкой истинный тип не покидает сервер.
func pieceView(x, y int, p *domain.Piece) api.PieceView {
	v := api.PieceView{
		ID:        p.ID,
		X:         x,
		Y:         y,
		Type:      p.Type,
		Color:     p.Color,
		Equip:     p.Equip,
		Name:      p.Name,
		Kills:     p.Kills,
		Veteran:   p.Veteran(),
		Stun:      p.Stun,
		Exhausted: p.Exhausted,
		Shadow:    p.Shadow,
	}
	if p.Color == domain.White {
		v.OriginalType = p.OriginalType
	} else if p.Equip == domain.Disguise {
		// Чужая маскировка: клиент видит пешку без предмета.
		v.Equip = domain.NoEquip
	}
	return v
}

// SpeechLine выбирает реплику фигуры для боя. Без случайности:
// индекс привязан к номеру хода, чтобы реплей звучал так же.
func SpeechLine(g *Game, p *domain.Piece) string {
	if p == nil || len(p.Speech) == 0 {
		return ""
	}
	return p.Speech[g.moveCount%len(p.Speech)]
}

// NewLogEntry собирает запись игрового лога.
func NewLogEntry(text, logType string) api.LogEntry {
	return api.LogEntry{
		ID:        fmt.Sprintf("%d", time.Now().UnixNano()),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	}
}
