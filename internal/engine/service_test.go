package engine

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *GameService {
	t.Helper()
	svc, err := NewService(Config{
		Seed:     "service-test",
		SavePath: filepath.Join(t.TempDir(), "saves.db"),
	})
	require.NoError(t, err)
	t.Cleanup(svc.Close)
	return svc
}

func command(sessionID, action, payload string) api.ClientCommand {
	cmd := api.ClientCommand{SessionID: sessionID, Action: action}
	if payload != "" {
		cmd.Payload = json.RawMessage(payload)
	}
	return cmd
}

func startGame(t *testing.T, svc *GameService, seed string) *api.ServerResponse {
	t.Helper()
	resp := svc.ProcessCommand(command("", "NEW_GAME",
		fmt.Sprintf(`{"seed":%q,"level":1}`, seed)))
	require.Equal(t, "INIT", resp.Type, "error: %s", resp.Error)
	require.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.Board)
	return resp
}

// firstQuietMove находит у белых любой тихий ход через MOVES.
func firstQuietMove(t *testing.T, svc *GameService, resp *api.ServerResponse) (from, to domain.Square) {
	t.Helper()
	for _, pv := range resp.Board.Pieces {
		if pv.Color != domain.White {
			continue
		}
		mresp := svc.ProcessCommand(command(resp.SessionID, "MOVES",
			fmt.Sprintf(`{"x":%d,"y":%d}`, pv.X, pv.Y)))
		require.NotEqual(t, "ERROR", mresp.Type)
		for _, m := range mresp.Moves {
			if !m.IsCombat() {
				return domain.Square{X: pv.X, Y: pv.Y}, m.To
			}
		}
	}
	t.Fatal("white has no quiet moves at the start of a level")
	return
}

func TestServiceNewGameFlow(t *testing.T) {
	svc := newTestService(t)
	resp := startGame(t, svc, "flow-seed")

	assert.Equal(t, 1, resp.Level)
	assert.Equal(t, domain.White, resp.Turn)
	assert.NotEmpty(t, resp.Board.Pieces)
	assert.NotEmpty(t, resp.Logs, "the level greeting goes to the game log")

	from, to := firstQuietMove(t, svc, resp)
	upd := svc.ProcessCommand(command(resp.SessionID, "MOVE",
		fmt.Sprintf(`{"fromX":%d,"fromY":%d,"toX":%d,"toY":%d}`, from.X, from.Y, to.X, to.Y)))
	require.NotEqual(t, "ERROR", upd.Type, "error: %s", upd.Error)

	// Тихий ход белых прокручивает ход черных: очередь снова у белых.
	if upd.Type == "UPDATE" {
		assert.Equal(t, domain.White, upd.Turn)
	}
}

func TestServiceCombatNeedsConfirm(t *testing.T) {
	svc := newTestService(t)
	resp := startGame(t, svc, "combat-seed")
	sid := resp.SessionID

	// Гоняем партию, пока не наткнемся на бой.
	for i := 0; i < 60; i++ {
		if resp.Outcome != "" {
			t.Skip("the level ended before any combat")
		}
		from, to := firstQuietMove(t, svc, resp)
		next := svc.ProcessCommand(command(sid, "MOVE",
			fmt.Sprintf(`{"fromX":%d,"fromY":%d,"toX":%d,"toY":%d}`, from.X, from.Y, to.X, to.Y)))
		require.NotEqual(t, "ERROR", next.Type, "error: %s", next.Error)

		if next.Type == "COMBAT" {
			require.NotNil(t, next.Combat)

			// Пока бой не подтвержден, другие ходы отбиваются.
			blocked := svc.ProcessCommand(command(sid, "MOVE",
				`{"fromX":0,"fromY":0,"toX":0,"toY":1}`))
			assert.Equal(t, "ERROR", blocked.Type)

			done := svc.ProcessCommand(command(sid, "CONFIRM", ""))
			require.NotEqual(t, "ERROR", done.Type)
			return
		}
		resp = next
	}
	t.Skip("no combat arose in 60 moves")
}

func TestServiceUnknownSessionAndAction(t *testing.T) {
	svc := newTestService(t)

	resp := svc.ProcessCommand(command("no-such-session", "MOVES", `{"x":0,"y":0}`))
	assert.Equal(t, "ERROR", resp.Type)

	game := startGame(t, svc, "err-seed")
	resp = svc.ProcessCommand(command(game.SessionID, "DANCE", ""))
	assert.Equal(t, "ERROR", resp.Type)
}

func TestServiceRejectsMalformedPayload(t *testing.T) {
	svc := newTestService(t)
	game := startGame(t, svc, "bad-payload")

	resp := svc.ProcessCommand(command(game.SessionID, "MOVES", `{"x":-1,"y":0}`))
	assert.Equal(t, "ERROR", resp.Type)

	resp = svc.ProcessCommand(command(game.SessionID, "MOVE",
		`{"fromX":2,"fromY":2,"toX":2,"toY":2}`))
	assert.Equal(t, "ERROR", resp.Type)
}

func TestServiceSaveAndLoadRoundTrip(t *testing.T) {
	svc := newTestService(t)
	game := startGame(t, svc, "save-seed")

	saved := svc.ProcessCommand(command(game.SessionID, "SAVE", `{"slot":1}`))
	require.NotEqual(t, "ERROR", saved.Type, "error: %s", saved.Error)

	loaded := svc.ProcessCommand(command("", "LOAD", `{"slot":1}`))
	require.Equal(t, "INIT", loaded.Type, "error: %s", loaded.Error)
	assert.NotEqual(t, game.SessionID, loaded.SessionID, "load opens a fresh session")
	assert.Equal(t, game.Level, loaded.Level)

	// Одно зерно - одна и та же доска после загрузки.
	first, ok := svc.BoardDump(game.SessionID)
	require.True(t, ok)
	second, ok := svc.BoardDump(loaded.SessionID)
	require.True(t, ok)
	assert.Equal(t, first, second)
}

func TestServiceLoadEmptySlot(t *testing.T) {
	svc := newTestService(t)
	resp := svc.ProcessCommand(command("", "LOAD", `{"slot":7}`))
	assert.Equal(t, "ERROR", resp.Type)
}

func TestServiceOddsDoesNotTouchTheDice(t *testing.T) {
	svc := newTestService(t)
	resp := startGame(t, svc, "odds-seed")
	sid := resp.SessionID

	// Сколько ни спрашивай шансы, партия от этого не меняется.
	var pv *api.PieceView
	for i := range resp.Board.Pieces {
		if resp.Board.Pieces[i].Color == domain.White {
			pv = &resp.Board.Pieces[i]
			break
		}
	}
	require.NotNil(t, pv)

	before, ok := svc.BoardDump(sid)
	require.True(t, ok)
	for i := 0; i < 5; i++ {
		oresp := svc.ProcessCommand(command(sid, "ODDS",
			fmt.Sprintf(`{"fromX":%d,"fromY":%d,"toX":%d,"toY":%d}`, pv.X, pv.Y, pv.X, pv.Y+1)))
		require.NotEqual(t, "ERROR", oresp.Type)
		require.NotNil(t, oresp.Odds)
	}
	after, ok := svc.BoardDump(sid)
	require.True(t, ok)
	assert.Equal(t, before, after)
}

func TestServiceSeedReproducesTheLevel(t *testing.T) {
	a := newTestService(t)
	b := newTestService(t)

	ra := startGame(t, a, "same-seed")
	rb := startGame(t, b, "same-seed")

	da, ok := a.BoardDump(ra.SessionID)
	require.True(t, ok)
	db, ok := b.BoardDump(rb.SessionID)
	require.True(t, ok)
	assert.Equal(t, da, db)
}
