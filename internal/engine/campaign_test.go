package engine

import (
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/content"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCampaignAdvanceSnapshotsSurvivors(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	vet := put(b, domain.Rook, domain.White, 2, 2)
	vet.Kills = 3
	vet.Stun = 2 // боевое состояние в снимок не попадает
	put(b, domain.Pawn, domain.Black, 5, 5)

	g := bareGame(b)
	g.GoldEarned = 5
	g.Level.White.Equip = []domain.Equipment{domain.Sword, domain.Purse}

	c := NewCampaign("camp")
	c.Advance(g)

	assert.Equal(t, 2, c.Level)
	assert.Equal(t, 5+LevelClearGold, c.Gold)
	require.Len(t, c.Roster, 2, "only white survivors are carried over")

	var saved *domain.SavedPiece
	for i := range c.Roster {
		if c.Roster[i].ID == vet.ID {
			saved = &c.Roster[i]
		}
	}
	require.NotNil(t, saved)
	assert.Equal(t, 3, saved.Kills)
	assert.Zero(t, saved.Restore().Stun, "pieces arrive fresh at the next level")

	assert.Equal(t, []domain.Equipment{domain.Sword}, c.Unlocks,
		"purse is loot, never an unlock")
	assert.Equal(t, 1, c.FreeUnits, "every second level grants a free unit")
	assert.Zero(t, c.FreeItems)
}

func TestCampaignUnlocksDoNotDuplicate(t *testing.T) {
	c := NewCampaign("camp")
	c.unlockFrom([]domain.Equipment{domain.Sword, domain.Shield})
	c.unlockFrom([]domain.Equipment{domain.Shield, domain.Bow})
	assert.Equal(t, []domain.Equipment{domain.Sword, domain.Shield, domain.Bow}, c.Unlocks)
}

func TestCampaignRosterFeedsNextLevel(t *testing.T) {
	campaign, err := content.Load("")
	require.NoError(t, err)
	level := campaign.LevelByNumber(2)

	roster := []domain.SavedPiece{{
		ID:            "veteran-1",
		Type:          domain.Rook,
		Color:         domain.White,
		Name:          "Старик",
		Kills:         5,
		Preconfigured: true,
	}}

	g := NewGame("roster-seed", level, "", roster)

	var found *domain.Piece
	g.Board.ForEachPiece(func(x, y int, p *domain.Piece) {
		if p.ID == "veteran-1" {
			found = p
		}
	})
	require.NotNil(t, found, "carried piece must be placed on the board")
	assert.Equal(t, "Старик", found.Name)
	assert.True(t, found.Veteran())
}
