package generate

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"

	"github.com/sirupsen/logrus"
)

// TerrainConfig - плотности рельефа и состав препятствий уровня.
type TerrainConfig struct {
	// Forest и Water - доля клеток под лес и воду (0..1).
	Forest float64
	Water  float64

	// Obstacles - сколько каких препятствий раскидать.
	Obstacles map[domain.Obstacle]int

	// SpawnRanks - столько рядов с каждого края остаются чистыми
	// от препятствий: армиям нужно где-то стоять.
	SpawnRanks int
}

// FillTerrain засевает лес и воду по плотностям.
// Ряд побега (если сценарий активен) остается голым: терять короля
// в лесу на финишной прямой было бы издевательством.
func FillTerrain(g *rng.Generator, b *domain.Board, cfg TerrainConfig) {
	for y := 0; y < b.Size; y++ {
		if y == b.EscapeRow {
			continue
		}
		for x := 0; x < b.Size; x++ {
			roll := g.Next()
			switch {
			case roll < cfg.Forest:
				b.Terrain[y][x] = domain.Forest
			case roll < cfg.Forest+cfg.Water:
				b.Terrain[y][x] = domain.Water
			}
		}
	}
}

// PlaceObstacles раскидывает препятствия по средней полосе доски.
// Клетки с фигурами и уже занятые препятствиями пропускаются.
func PlaceObstacles(g *rng.Generator, b *domain.Board, cfg TerrainConfig) {
	genLogger := logger.Log.WithFields(logrus.Fields{
		"component":  "terrain_generator",
		"board_size": b.Size,
	})

	minY := cfg.SpawnRanks
	maxY := b.Size - cfg.SpawnRanks
	if minY >= maxY {
		genLogger.Warn("Board too small for obstacle belt, skipping obstacles.")
		return
	}

	placed := 0
	for _, entry := range sortedObstacles(cfg.Obstacles) {
		for i := 0; i < entry.count; i++ {
			if tryPlace(g, b, entry.kind, minY, maxY) {
				placed++
			}
		}
	}

	genLogger.WithField("obstacles_placed", placed).Debug("Obstacle placement complete.")
}

// obstacleEntry нужен, чтобы порядок расстановки не зависел от
// обхода мапы: иначе сид перестает быть воспроизводимым.
type obstacleEntry struct {
	kind  domain.Obstacle
	count int
}

var obstacleOrder = []domain.Obstacle{
	domain.Rock, domain.Courtier, domain.Gate, domain.Bell, domain.Column,
}

func sortedObstacles(m map[domain.Obstacle]int) []obstacleEntry {
	var out []obstacleEntry
	for _, kind := range obstacleOrder {
		if n := m[kind]; n > 0 {
			out = append(out, obstacleEntry{kind: kind, count: n})
		}
	}
	return out
}

func tryPlace(g *rng.Generator, b *domain.Board, kind domain.Obstacle, minY, maxY int) bool {
	for tries := 0; tries < 30; tries++ {
		x := g.Intn(b.Size)
		y := minY + g.Intn(maxY-minY)
		if y == b.EscapeRow {
			continue
		}
		if b.PieceAt(x, y) != nil || b.ObstacleAt(x, y) != domain.ObstacleNone {
			continue
		}
		b.Obstacles[y][x] = kind
		return true
	}
	return false
}

// PlaceArmy выставляет армию на доску: задний ряд у края, пешки
// перед ним. Белые - снизу (y=0), черные - сверху.
// Клетки, занятые препятствиями, пропускаются; вытесненные фигуры
// доселяются в ближайшие свободные клетки своих двух рядов.
func PlaceArmy(b *domain.Board, army Army, color domain.Color) {
	backY, frontY := 0, 1
	if color == domain.Black {
		backY, frontY = b.Size-1, b.Size-2
	}

	var displaced []*domain.Piece
	placeRank := func(rank []*domain.Piece, y int) {
		for x, p := range rank {
			if p == nil {
				continue
			}
			if x < b.Size && b.PieceAt(x, y) == nil && b.ObstacleAt(x, y) == domain.ObstacleNone {
				b.SetPiece(x, y, p)
			} else {
				displaced = append(displaced, p)
			}
		}
	}
	placeRank(army.Back, backY)
	placeRank(army.Front, frontY)

	// Доселение вытесненных: первый свободный слот на двух рядах
	for _, p := range displaced {
		for _, y := range []int{backY, frontY} {
			done := false
			for x := 0; x < b.Size; x++ {
				if b.PieceAt(x, y) == nil && b.ObstacleAt(x, y) == domain.ObstacleNone {
					b.SetPiece(x, y, p)
					done = true
					break
				}
			}
			if done {
				break
			}
		}
	}
}
