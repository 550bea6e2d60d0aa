package engine

import (
	"errors"
	"fmt"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/content"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/generate"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/rng"

	"github.com/sirupsen/logrus"
)

// Ошибки движка. Все они - следствие неверной команды клиента,
// партию они не ломают.
var (
	ErrGameOver      = errors.New("game is already over")
	ErrCombatPending = errors.New("combat awaits confirmation")
	ErrNoCombat      = errors.New("no combat to act on")
	ErrNotYourTurn   = errors.New("piece does not belong to the side to move")
	ErrNoPiece       = errors.New("no piece at the source square")
	ErrIllegalMove   = errors.New("move is not legal for this piece")
	ErrCannotPray    = errors.New("this combat cannot be rerolled")
)

// PendingCombat - бой, разыгранный, но еще не примененный к доске.
// Пауза между фазами отдана клиенту под анимацию кубиков; пока бой
// не подтвержден, никакая другая команда хода не принимается.
type PendingCombat struct {
	From domain.Square
	To   domain.Square
	Kind systems.MoveKind

	Piece    *systems.Outcome
	Obstacle *systems.ObstacleOutcome

	// Prayed - перемаливание уже потрачено на этот бой.
	Prayed bool
}

// Lost - проиграл ли атакующий.
func (pc *PendingCombat) Lost() bool {
	if pc.Piece != nil {
		return !pc.Piece.Win && !pc.Piece.BellSaved
	}
	return !pc.Obstacle.Win
}

// Forced - был ли в бою навязанный бросок. Такие бои не перемаливаются.
func (pc *PendingCombat) Forced() bool {
	if pc.Piece != nil {
		return pc.Piece.Attacker.Forced || pc.Piece.Defender.Forced
	}
	return pc.Obstacle.Attacker.Forced
}

// Game - состояние одной партии: доска, очередь хода, бой в полете.
// Все методы синхронны; сериализацию команд обеспечивает сервис.
type Game struct {
	Seed  string
	Level content.Level
	Board *domain.Board

	Turn domain.Color
	RNG  *rng.Generator

	// PrayersLeft - остаток перемаливаний на уровне.
	PrayersLeft int

	// GoldEarned - золото, добытое игроком за уровень (кошельки).
	GoldEarned int

	// Winner - победитель партии или пустая строка, пока партия идет.
	Winner domain.Color

	Behavior systems.Behavior

	// LastCombat - последний примененный бой, для анимации на клиенте.
	LastCombat *PendingCombat

	pending   *PendingCombat
	moveCount int

	// trails - последние клетки каждой фигуры для ловли осцилляции.
	trails map[string][]domain.Square

	// exhaustedNext - фигура, выдохшаяся этим ходом. Флаг ставится
	// после тика статусов, иначе endTurn снял бы его тут же.
	exhaustedNext *domain.Piece

	log *logrus.Entry
}

// NewGame собирает партию уровня: рельеф, препятствия, обе армии.
// roster - выжившие фигуры игрока с прошлых уровней, они занимают
// места до случайной генерации и бюджет не тратят.
func NewGame(seed string, level content.Level, behavior systems.Behavior, roster []domain.SavedPiece) *Game {
	g := rng.New(seed, level.Number)

	b := domain.NewBoard(level.BoardSize)
	if level.Victory == content.VictoryEscape {
		b.EscapeRow = level.BoardSize - 1
	}

	generate.FillTerrain(g, b, terrainConfig(level))
	generate.PlaceObstacles(g, b, terrainConfig(level))

	white := generate.BuildArmy(g, level.BoardSize, armyConfig(level.White, domain.White, roster))
	black := generate.BuildArmy(g, level.BoardSize, armyConfig(level.Black, domain.Black, nil))
	generate.PlaceArmy(b, white, domain.White)
	generate.PlaceArmy(b, black, domain.Black)

	if level.Victory == content.VictoryBell {
		if _, king, ok := b.FindKing(domain.Black); ok {
			b.BellGuardID = king.ID
		}
	}

	if behavior == "" {
		behavior = systems.Behavior(level.Behavior)
	}
	if behavior == "" {
		behavior = systems.Balanced
	}

	game := &Game{
		Seed:        seed,
		Level:       level,
		Board:       b,
		Turn:        domain.White,
		RNG:         g,
		PrayersLeft: level.Prayers,
		Behavior:    behavior,
		trails:      make(map[string][]domain.Square),
		log: logger.Log.WithFields(logrus.Fields{
			"component": "game",
			"level":     level.Number,
			"seed":      seed,
		}),
	}
	game.log.WithField("board", level.BoardSize).Info("Level assembled.")
	return game
}

func terrainConfig(level content.Level) generate.TerrainConfig {
	return generate.TerrainConfig{
		Forest:     level.Forest,
		Water:      level.Water,
		Obstacles:  level.Obstacles,
		SpawnRanks: level.SpawnRanks,
	}
}

func armyConfig(side content.SideDef, color domain.Color, roster []domain.SavedPiece) generate.ArmyConfig {
	var guaranteed []*domain.Piece
	for _, sp := range roster {
		guaranteed = append(guaranteed, sp.Restore())
	}
	for _, gp := range side.Guaranteed {
		p := domain.NewPiece(gp.Type, color)
		p.Name = gp.Name
		p.Speech = gp.Speech
		p.SetEquip(gp.Equip)
		guaranteed = append(guaranteed, p)
	}
	return generate.ArmyConfig{
		Color:        color,
		Gold:         side.Gold,
		PawnShare:    side.PawnShare,
		EquipGold:    side.EquipGold,
		AllowedTypes: side.Types,
		AllowedEquip: side.Equip,
		Guaranteed:   guaranteed,
	}
}

// Over - закончилась ли партия.
func (g *Game) Over() bool {
	return g.Winner != ""
}

// Pending возвращает неподтвержденный бой или nil.
func (g *Game) Pending() *PendingCombat {
	return g.pending
}

// LegalMoves - допустимые ходы фигуры в клетке. Для чужой фигуры
// или пустой клетки - пусто, это запрос, а не действие.
func (g *Game) LegalMoves(x, y int) []systems.Move {
	return systems.MovesFor(g.Board, x, y)
}

// Odds - шанс атаки из from в to в процентах. Не трогает RNG.
func (g *Game) Odds(from, to domain.Square) int {
	advantage := false
	if p := g.Board.PieceAt(from.X, from.Y); p != nil && p.Equip == domain.Lance {
		for _, m := range systems.MovesFor(g.Board, from.X, from.Y) {
			if m.To == to && m.Kind == systems.MoveLance {
				advantage = true
			}
		}
	}
	if g.Board.PieceAt(to.X, to.Y) == nil && g.Board.ObstacleAt(to.X, to.Y) != domain.ObstacleNone {
		return systems.ObstacleWinPercent(g.Board, from, to, advantage)
	}
	return systems.WinPercent(g.Board, from, to, advantage)
}

// PerformMove выполняет ход стороны, которой принадлежит очередь.
// Тихий ход и обмен применяются сразу (возвращается nil-бой),
// любой бой разыгрывается и замирает до Confirm.
func (g *Game) PerformMove(from, to domain.Square) (*PendingCombat, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if g.pending != nil {
		return nil, ErrCombatPending
	}
	p := g.Board.PieceAt(from.X, from.Y)
	if p == nil {
		return nil, ErrNoPiece
	}
	if p.Color != g.Turn {
		return nil, ErrNotYourTurn
	}

	var chosen *systems.Move
	for _, m := range systems.MovesFor(g.Board, from.X, from.Y) {
		if m.To == to {
			m := m
			chosen = &m
			break
		}
	}
	if chosen == nil {
		return nil, ErrIllegalMove
	}

	switch chosen.Kind {
	case systems.MoveStep:
		g.Board.SetPiece(to.X, to.Y, g.Board.RemovePiece(from.X, from.Y))
		g.recordTrail(p, to)
		g.endTurn()
		return nil, nil

	case systems.MoveSwap:
		g.applySwap(from, to, p)
		g.recordTrail(p, to)
		g.endTurn()
		return nil, nil

	case systems.MoveSmash:
		out := systems.ResolveObstacle(g.RNG, g.Board, from, to, false)
		if out == nil {
			return nil, ErrIllegalMove
		}
		g.pending = &PendingCombat{From: from, To: to, Kind: chosen.Kind, Obstacle: out}

	default: // attack, lance
		// Выпад копьем может приземлиться и на препятствие:
		// фигуры на посадке нет, разыгрываем снос с преимуществом.
		if chosen.Kind == systems.MoveLance && g.Board.PieceAt(to.X, to.Y) == nil {
			out := systems.ResolveObstacle(g.RNG, g.Board, from, to, true)
			if out == nil {
				return nil, ErrIllegalMove
			}
			g.pending = &PendingCombat{From: from, To: to, Kind: chosen.Kind, Obstacle: out}
			return g.pending, nil
		}
		out := systems.Resolve(g.RNG, g.Board, from, to, chosen.Kind == systems.MoveLance)
		if out == nil {
			// Гонка интерфейса с концом партии: бой тихо отменяется.
			return nil, ErrIllegalMove
		}
		g.pending = &PendingCombat{From: from, To: to, Kind: chosen.Kind, Piece: out}
	}

	return g.pending, nil
}

// applySwap меняет местами фигуру и союзника либо придворного.
func (g *Game) applySwap(from, to domain.Square, p *domain.Piece) {
	if other := g.Board.PieceAt(to.X, to.Y); other != nil {
		g.Board.SetPiece(from.X, from.Y, other)
		g.Board.SetPiece(to.X, to.Y, p)
		return
	}
	// Обмен с придворным: препятствие переезжает на старую клетку.
	g.Board.RemovePiece(from.X, from.Y)
	g.Board.RemoveObstacle(to.X, to.Y)
	g.Board.SetPiece(to.X, to.Y, p)
	g.Board.Obstacles[from.Y][from.X] = domain.Courtier
}

// Pray перемаливает проигранный бой: единственная повторная
// про́крутка кубиков, RNG сдвигается ровно на одно разрешение боя.
// Навязанные броски перемолить нельзя.
func (g *Game) Pray() (*PendingCombat, error) {
	if g.pending == nil {
		return nil, ErrNoCombat
	}
	pc := g.pending
	if pc.Prayed || g.PrayersLeft <= 0 || !pc.Lost() || pc.Forced() {
		return nil, ErrCannotPray
	}

	if pc.Piece != nil {
		out := systems.Resolve(g.RNG, g.Board, pc.From, pc.To, pc.Kind == systems.MoveLance)
		if out == nil {
			return nil, ErrCannotPray
		}
		pc.Piece = out
	} else {
		out := systems.ResolveObstacle(g.RNG, g.Board, pc.From, pc.To, pc.Kind == systems.MoveLance)
		if out == nil {
			return nil, ErrCannotPray
		}
		pc.Obstacle = out
	}

	pc.Prayed = true
	g.PrayersLeft--
	g.log.WithField("prayers_left", g.PrayersLeft).Info("Combat rerolled by prayer.")
	return pc, nil
}

// Confirm применяет неподтвержденный бой к доске и передает ход.
func (g *Game) Confirm() error {
	if g.pending == nil {
		return ErrNoCombat
	}
	pc := g.pending
	g.pending = nil
	g.LastCombat = pc

	if pc.Piece != nil {
		g.applyCombat(pc)
	} else {
		g.applyObstacle(pc)
	}
	g.endTurn()
	return nil
}

// BreakDisguise снимает маскировку собственной фигуры. Это ветка
// интерфейса, хода она не тратит.
func (g *Game) BreakDisguise(sq domain.Square) error {
	p := g.Board.PieceAt(sq.X, sq.Y)
	if p == nil {
		return ErrNoPiece
	}
	if p.Color != g.Turn {
		return ErrNotYourTurn
	}
	if p.Equip != domain.Disguise {
		return fmt.Errorf("piece at (%d,%d) is not disguised", sq.X, sq.Y)
	}
	p.RevealDisguise()
	g.log.WithField("piece", p.ID).Info("Disguise broken.")
	return nil
}

// SkipTurn пропускает ход стороны без допустимых ходов.
func (g *Game) SkipTurn() error {
	if g.Over() {
		return ErrGameOver
	}
	if g.pending != nil {
		return ErrCombatPending
	}
	g.endTurn()
	return nil
}

// BotTurn разыгрывает ход бота целиком: выбор, бой, применение.
// Возвращает выбранный ход (nil, если бот пропустил или партия встала).
func (g *Game) BotTurn() (*systems.BotMove, error) {
	if g.Over() {
		return nil, ErrGameOver
	}
	if g.pending != nil {
		return nil, ErrCombatPending
	}

	choice := systems.ChooseMove(g.Board, g.Turn, g.RNG, g.Behavior)
	if choice == nil {
		// Мат или пропуск - решает Standing; сам бот лишь пасует.
		g.endTurn()
		return nil, nil
	}

	pc, err := g.PerformMove(choice.From, choice.To)
	if err != nil {
		return nil, fmt.Errorf("bot chose an illegal move: %w", err)
	}
	if pc != nil {
		if err := g.Confirm(); err != nil {
			return nil, err
		}
	}
	return choice, nil
}

// recordTrail дописывает клетку в след фигуры и ловит осцилляцию
// A-B-A-B-A-B: шестая клетка подряд по той же паре - и фигура выдыхается.
func (g *Game) recordTrail(p *domain.Piece, to domain.Square) {
	trail := append(g.trails[p.ID], to)
	if len(trail) > 6 {
		trail = trail[len(trail)-6:]
	}
	g.trails[p.ID] = trail
	if systems.IsOscillating(trail) {
		g.exhaustedNext = p
		g.trails[p.ID] = nil
		g.log.WithField("piece", p.ID).Info("Piece exhausted by oscillation.")
	}
}

// endTurn передает очередь и снимает статусы стороны, чей ход кончился.
func (g *Game) endTurn() {
	ended := g.Turn
	g.moveCount++
	systems.DecrementStunFor(g.Board, ended)
	if g.exhaustedNext != nil {
		g.exhaustedNext.Exhausted = true
		g.exhaustedNext = nil
	}
	g.Turn = ended.Opponent()
	g.evaluateVictory()
}

// evaluateVictory проверяет условия конца партии.
func (g *Game) evaluateVictory() {
	if g.Winner != "" {
		return
	}

	if _, _, ok := g.Board.FindKing(domain.Black); !ok {
		g.Winner = domain.White
	}
	if _, _, ok := g.Board.FindKing(domain.White); !ok {
		g.Winner = domain.Black
	}

	if g.Level.Victory == content.VictoryEscape {
		if sq, _, ok := g.Board.FindKing(domain.White); ok && sq.Y == g.Board.EscapeRow {
			g.Winner = domain.White
		}
	}

	if g.Winner != "" {
		g.log.WithField("winner", g.Winner).Info("Game over.")
	}
}
