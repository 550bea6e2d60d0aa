package engine

import (
	"os"
	"testing"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/content"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

// bareGame собирает партию на готовой доске, минуя генерацию.
func bareGame(b *domain.Board) *Game {
	return &Game{
		Seed:        "test",
		Level:       content.Level{Number: 1, BoardSize: b.Size, Prayers: 1},
		Board:       b,
		Turn:        domain.White,
		RNG:         rng.New("test", 1),
		PrayersLeft: 1,
		trails:      make(map[string][]domain.Square),
		log:         logger.Log.WithField("component", "game_test"),
	}
}

func put(b *domain.Board, t domain.PieceType, c domain.Color, x, y int) *domain.Piece {
	p := domain.NewPiece(t, c)
	b.SetPiece(x, y, p)
	return p
}

func TestQuietMoveAdvancesTurn(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	rook := put(b, domain.Rook, domain.White, 2, 0)

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 0}, domain.Square{X: 2, Y: 3})
	require.NoError(t, err)
	assert.Nil(t, pc, "quiet move must not open a combat")
	assert.Equal(t, domain.Black, g.Turn)
	assert.Same(t, rook, g.Board.PieceAt(2, 3))
}

func TestCombatPendingBlocksOtherCommands(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	put(b, domain.Rook, domain.White, 2, 0)
	put(b, domain.Pawn, domain.Black, 2, 4)

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 0}, domain.Square{X: 2, Y: 4})
	require.NoError(t, err)
	require.NotNil(t, pc)
	assert.Equal(t, domain.White, g.Turn, "turn must not pass while combat is pending")

	_, err = g.PerformMove(domain.Square{X: 0, Y: 0}, domain.Square{X: 0, Y: 1})
	assert.ErrorIs(t, err, ErrCombatPending)

	require.NoError(t, g.Confirm())
	assert.Equal(t, domain.Black, g.Turn)
}

func TestConfirmAppliesCombatResult(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	rook := put(b, domain.Rook, domain.White, 2, 0)
	pawn := put(b, domain.Pawn, domain.Black, 2, 4)

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 0}, domain.Square{X: 2, Y: 4})
	require.NoError(t, err)
	require.NoError(t, g.Confirm())

	if pc.Piece.Win {
		assert.Same(t, rook, g.Board.PieceAt(2, 4), "winner occupies the square")
		assert.Equal(t, 1, rook.Kills)
	} else {
		assert.Same(t, pawn, g.Board.PieceAt(2, 4), "defender holds the square")
		assert.Nil(t, g.Board.PieceAt(2, 0), "loser is removed")
		assert.Equal(t, 1, pawn.Kills)
	}
}

// lostNonForcedCombat подбирает зерно, при котором атака проиграна
// честными кубиками - такой бой можно перемолить.
func lostNonForcedCombat(t *testing.T) *Game {
	t.Helper()
	for i := 0; i < 200; i++ {
		b := domain.NewBoard(6)
		put(b, domain.King, domain.White, 0, 0)
		put(b, domain.King, domain.Black, 5, 5)
		put(b, domain.Pawn, domain.White, 2, 3)
		def := put(b, domain.Knight, domain.Black, 3, 4)
		def.SetEquip(domain.Shield)

		g := bareGame(b)
		g.RNG = rng.New("pray-seed", i)
		pc, err := g.PerformMove(domain.Square{X: 2, Y: 3}, domain.Square{X: 3, Y: 4})
		require.NoError(t, err)
		if pc.Lost() && !pc.Forced() {
			return g
		}
	}
	t.Fatal("no seed produced a lost honest combat")
	return nil
}

func TestPrayerRerollsOnce(t *testing.T) {
	g := lostNonForcedCombat(t)
	require.Equal(t, 1, g.PrayersLeft)

	before := g.Pending().Piece
	pc, err := g.Pray()
	require.NoError(t, err)
	assert.Equal(t, 0, g.PrayersLeft)
	assert.True(t, pc.Prayed)
	assert.NotSame(t, before, pc.Piece, "prayer must re-resolve the combat")

	// Второй раз тот же бой не перемаливается, даже если снова проигран.
	_, err = g.Pray()
	assert.ErrorIs(t, err, ErrCannotPray)
}

func TestPrayerRejectedOnWonCombat(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	put(b, domain.Rook, domain.White, 2, 3)
	// Оглушенный защитник всегда бросает 1: атака гарантированно выиграна.
	def := put(b, domain.Pawn, domain.Black, 2, 4)
	def.Stun = 2

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 3}, domain.Square{X: 2, Y: 4})
	require.NoError(t, err)
	require.True(t, pc.Piece.Win)

	_, err = g.Pray()
	assert.ErrorIs(t, err, ErrCannotPray)
}

func TestPrayerRejectedOnForcedRoll(t *testing.T) {
	for i := 0; i < 200; i++ {
		b := domain.NewBoard(6)
		put(b, domain.King, domain.White, 0, 0)
		put(b, domain.King, domain.Black, 5, 5)
		put(b, domain.Pawn, domain.White, 2, 3)
		// Коса защитника против пешки: бросок защиты навязан шестеркой.
		def := put(b, domain.Knight, domain.Black, 3, 4)
		def.SetEquip(domain.Scythe)

		g := bareGame(b)
		g.RNG = rng.New("forced-seed", i)
		pc, err := g.PerformMove(domain.Square{X: 2, Y: 3}, domain.Square{X: 3, Y: 4})
		require.NoError(t, err)
		require.True(t, pc.Forced())
		if !pc.Lost() {
			continue
		}
		_, err = g.Pray()
		assert.ErrorIs(t, err, ErrCannotPray)
		return
	}
	t.Fatal("no seed produced a lost forced combat")
}

func TestBellSavedCombatLeavesBoardUntouched(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	king := put(b, domain.King, domain.Black, 2, 4)
	b.Obstacles[5][5] = domain.Bell
	b.BellGuardID = king.ID
	rook := put(b, domain.Rook, domain.White, 2, 0)

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 0}, domain.Square{X: 2, Y: 3})
	require.NoError(t, err)
	require.Nil(t, pc)

	// Черные пропустим вручную: очередь возвращается белым.
	require.NoError(t, g.SkipTurn())

	pc, err = g.PerformMove(domain.Square{X: 2, Y: 3}, domain.Square{X: 2, Y: 4})
	require.NoError(t, err)
	require.True(t, pc.Piece.BellSaved)
	require.NoError(t, g.Confirm())

	assert.Same(t, king, g.Board.PieceAt(2, 4), "king survives under the bell")
	assert.Same(t, rook, g.Board.PieceAt(2, 3), "attacker stays put")
	assert.Empty(t, g.Winner)
}

func TestEscapeVictory(t *testing.T) {
	b := domain.NewBoard(6)
	b.EscapeRow = 5
	put(b, domain.King, domain.White, 0, 4)
	put(b, domain.King, domain.Black, 5, 0)

	g := bareGame(b)
	g.Level.Victory = content.VictoryEscape

	_, err := g.PerformMove(domain.Square{X: 0, Y: 4}, domain.Square{X: 0, Y: 5})
	require.NoError(t, err)
	assert.Equal(t, domain.White, g.Winner)
}

func TestKingDeathEndsGame(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	king := put(b, domain.King, domain.Black, 2, 4)
	king.Stun = 3 // бросок защиты навязан единицей, исход предрешен
	put(b, domain.Rook, domain.White, 2, 0)

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 0}, domain.Square{X: 2, Y: 4})
	require.NoError(t, err)
	require.True(t, pc.Piece.Win)
	require.NoError(t, g.Confirm())

	assert.Equal(t, domain.White, g.Winner)
	_, err = g.PerformMove(domain.Square{X: 0, Y: 0}, domain.Square{X: 0, Y: 1})
	assert.ErrorIs(t, err, ErrGameOver)
}

func TestBreakDisguise(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	q := put(b, domain.Queen, domain.White, 2, 2)
	require.True(t, q.SetEquip(domain.Disguise))
	require.Equal(t, domain.Pawn, q.Type)

	g := bareGame(b)
	require.NoError(t, g.BreakDisguise(domain.Square{X: 2, Y: 2}))
	assert.Equal(t, domain.Queen, q.Type)
	assert.Equal(t, domain.White, g.Turn, "breaking a disguise does not spend the turn")
}

func TestCrystalBallSwapWithCourtier(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	bishop := put(b, domain.Bishop, domain.White, 2, 2)
	bishop.SetEquip(domain.CrystalBall)
	b.Obstacles[2][3] = domain.Courtier

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 2}, domain.Square{X: 3, Y: 2})
	require.NoError(t, err)
	assert.Nil(t, pc)

	assert.Same(t, bishop, g.Board.PieceAt(3, 2))
	assert.Equal(t, domain.Courtier, g.Board.ObstacleAt(2, 2), "courtier takes the vacated square")
	assert.Equal(t, domain.ObstacleNone, g.Board.ObstacleAt(3, 2))
}

func TestOscillationExhaustsPiece(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	rook := put(b, domain.Rook, domain.White, 2, 2)

	g := bareGame(b)
	a := domain.Square{X: 2, Y: 2}
	bq := domain.Square{X: 3, Y: 2}
	from, to := a, bq
	for i := 0; i < 6; i++ {
		_, err := g.PerformMove(from, to)
		require.NoError(t, err)
		require.NoError(t, g.SkipTurn()) // черные стоят
		from, to = to, from
	}
	assert.True(t, rook.Exhausted, "three A-B round trips exhaust the piece")

	// Вымотанная фигура стоит один ход и приходит в себя.
	assert.Empty(t, g.LegalMoves(2, 2))
	require.NoError(t, g.SkipTurn())
	require.NoError(t, g.SkipTurn())
	assert.False(t, rook.Exhausted)
}

func TestLanceJumpOntoObstacle(t *testing.T) {
	b := domain.NewBoard(6)
	put(b, domain.King, domain.White, 0, 0)
	put(b, domain.King, domain.Black, 5, 5)
	att := put(b, domain.Pawn, domain.White, 2, 1)
	att.SetEquip(domain.Lance)
	b.Obstacles[3][2] = domain.Rock

	g := bareGame(b)
	pc, err := g.PerformMove(domain.Square{X: 2, Y: 1}, domain.Square{X: 2, Y: 3})
	require.NoError(t, err, "lance jump onto an obstacle is a legal move")
	require.NotNil(t, pc)
	require.NotNil(t, pc.Obstacle, "landing on an obstacle rolls a smash, not a piece combat")
	assert.Nil(t, pc.Piece)

	require.NoError(t, g.Confirm())
	assert.Same(t, att, g.Board.PieceAt(2, 1), "the lancer never leaves its square")
	assert.Equal(t, domain.NoEquip, att.Equip, "the lance is spent either way")
	if pc.Obstacle.Win {
		assert.Equal(t, domain.ObstacleNone, g.Board.ObstacleAt(2, 3))
	} else {
		assert.Equal(t, domain.Rock, g.Board.ObstacleAt(2, 3))
	}
}

func TestPrayerRerollsObstacleCombat(t *testing.T) {
	for i := 0; i < 300; i++ {
		b := domain.NewBoard(6)
		put(b, domain.King, domain.White, 0, 0)
		put(b, domain.King, domain.Black, 5, 5)
		att := put(b, domain.Pawn, domain.White, 2, 1)
		att.SetEquip(domain.Lance)
		b.Obstacles[3][2] = domain.Gate

		g := bareGame(b)
		g.RNG = rng.New("gate-seed", i)
		pc, err := g.PerformMove(domain.Square{X: 2, Y: 1}, domain.Square{X: 2, Y: 3})
		require.NoError(t, err)
		if !pc.Lost() || pc.Forced() {
			continue
		}

		before := pc.Obstacle
		got, err := g.Pray()
		require.NoError(t, err)
		assert.NotSame(t, before, got.Obstacle, "prayer re-rolls the smash")
		assert.Equal(t, 0, g.PrayersLeft)
		return
	}
	t.Fatal("no seed produced a lost honest smash")
}

func TestFullGameDeterminism(t *testing.T) {
	campaign, err := content.Load("")
	require.NoError(t, err)
	level := campaign.LevelByNumber(3)

	play := func() string {
		g := NewGame("determinism", level, systems.Balanced, nil)
		for i := 0; i < 40 && !g.Over(); i++ {
			if _, err := g.BotTurn(); err != nil {
				t.Fatalf("bot turn %d: %v", i, err)
			}
		}
		return g.Board.Dump()
	}

	first := play()
	second := play()
	require.Equal(t, first, second, "same seed and same choices must reproduce the board")
}
