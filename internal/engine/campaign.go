package engine

import (
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
)

// Campaign - сквозное состояние между уровнями: зерно, номер уровня,
// выжившие фигуры игрока, золото и открытые предметы.
type Campaign struct {
	Seed  string `json:"seed"`
	Level int    `json:"level"`
	Gold  int    `json:"gold"`

	// Roster - фигуры игрока, пережившие прошлый уровень.
	// На следующем они ставятся до генерации и бюджет не тратят.
	Roster []domain.SavedPiece `json:"roster,omitempty"`

	// Unlocks - экипировка, открытая для будущих покупок.
	Unlocks []domain.Equipment `json:"unlocks,omitempty"`

	// FreeUnits и FreeItems - накопленные купоны магазина.
	FreeUnits int `json:"freeUnits"`
	FreeItems int `json:"freeItems"`
}

// LevelClearGold - премия за зачистку уровня.
const LevelClearGold = 10

// NewCampaign начинает кампанию с первого уровня.
func NewCampaign(seed string) *Campaign {
	return &Campaign{Seed: seed, Level: 1}
}

// Advance фиксирует победу на уровне: снимок выживших, золото,
// новые предметы, купоны.
func (c *Campaign) Advance(g *Game) {
	c.Roster = c.Roster[:0]
	for _, pp := range g.Board.Pieces(domain.White) {
		c.Roster = append(c.Roster, pp.Piece.ToSaved())
	}

	c.Gold += g.GoldEarned + LevelClearGold
	c.unlockFrom(g.Level.White.Equip)

	c.Level++
	if c.Level%2 == 0 {
		c.FreeUnits++
	}
	if c.Level%3 == 0 {
		c.FreeItems++
	}

	logger.Log.WithField("component", "campaign").
		WithField("level", c.Level).
		WithField("roster", len(c.Roster)).
		Info("Campaign advances.")
}

// unlockFrom дописывает еще не открытые предметы уровня.
// Кошелек не открывается никогда - он только трофей.
func (c *Campaign) unlockFrom(equip []domain.Equipment) {
	for _, e := range equip {
		if e == domain.Purse || c.unlocked(e) {
			continue
		}
		c.Unlocks = append(c.Unlocks, e)
	}
}

func (c *Campaign) unlocked(e domain.Equipment) bool {
	for _, u := range c.Unlocks {
		if u == e {
			return true
		}
	}
	return false
}
