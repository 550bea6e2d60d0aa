package engine

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/content"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/network"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/storage"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Session - одна кампания одного клиента.
type Session struct {
	ID       string
	Campaign *Campaign
	Game     *Game

	// logs - записи, накопленные с прошлого ответа.
	logs []api.LogEntry
}

func (sess *Session) addLog(text, logType string) {
	sess.logs = append(sess.logs, NewLogEntry(text, logType))
	logger.Log.WithFields(logrus.Fields{
		"session":   sess.ID,
		"component": "game_log",
		"log_type":  logType,
	}).Info(text)
}

// GameService принимает команды клиентов и крутит партии.
// Все команды сериализуются одним мьютексом: ядро синхронно,
// а одновременных партий у локального сервера единицы.
type GameService struct {
	Hub *network.Broadcaster

	cfg     Config
	levels  *content.Campaign
	store   *storage.Store
	replays map[string]*storage.ReplayWriter

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewService грузит контент и открывает базу сохранений.
func NewService(cfg Config) (*GameService, error) {
	levels, err := content.Load(cfg.CampaignPath)
	if err != nil {
		return nil, fmt.Errorf("loading campaign content: %w", err)
	}

	var store *storage.Store
	if cfg.SavePath != "" {
		store, err = storage.Open(cfg.SavePath)
		if err != nil {
			return nil, err
		}
	}

	return &GameService{
		Hub:      network.NewBroadcaster(),
		cfg:      cfg,
		levels:   levels,
		store:    store,
		replays:  make(map[string]*storage.ReplayWriter),
		sessions: make(map[string]*Session),
	}, nil
}

// Close закрывает базу и недописанные реплеи.
func (s *GameService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rw := range s.replays {
		if err := rw.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close replay writer")
		}
	}
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close save database")
		}
	}
}

// AttachReplay включает запись журнала команд для сессии.
func (s *GameService) AttachReplay(sessionID string, rw *storage.ReplayWriter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replays[sessionID] = rw
}

// ProcessCommand - единственная точка входа команд. Ответ уходит
// вызвавшему; подписчики сессии получают его же через Hub.
func (s *GameService) ProcessCommand(cmd api.ClientCommand) *api.ServerResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := s.dispatch(cmd)
	if resp.SessionID != "" {
		if rw, ok := s.replays[resp.SessionID]; ok && resp.Type != "ERROR" {
			if err := rw.Append(cmd); err != nil {
				logger.Log.WithError(err).Warn("failed to append replay command")
			}
		}
		s.Hub.Publish(resp.SessionID, *resp)
	}
	return resp
}

func (s *GameService) dispatch(cmd api.ClientCommand) *api.ServerResponse {
	switch cmd.Action {
	case "INIT":
		resp := &api.ServerResponse{Type: "INIT"}
		resp.Logs = append(resp.Logs, NewLogEntry("Добро пожаловать на доску.", "INFO"))
		return resp
	case "NEW_GAME":
		return s.handleNewGame(cmd)
	case "LOAD":
		return s.handleLoad(cmd)
	}

	sess, ok := s.sessions[cmd.SessionID]
	if !ok {
		return errorResponse(cmd.SessionID, "unknown session")
	}

	switch cmd.Action {
	case "MOVES":
		return s.handleMoves(sess, cmd)
	case "ODDS":
		return s.handleOdds(sess, cmd)
	case "MOVE":
		return s.handleMove(sess, cmd)
	case "PRAY":
		return s.handlePray(sess)
	case "CONFIRM":
		return s.handleConfirm(sess)
	case "BREAK_DISGUISE":
		return s.handleBreakDisguise(sess, cmd)
	case "NEXT_LEVEL":
		return s.handleNextLevel(sess)
	case "SAVE":
		return s.handleSave(sess, cmd)
	default:
		return errorResponse(sess.ID, "unknown action: "+cmd.Action)
	}
}

func (s *GameService) handleNewGame(cmd api.ClientCommand) *api.ServerResponse {
	var p api.NewGamePayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}

	seed := p.Seed
	if seed == "" {
		seed = s.cfg.Seed
	}

	sess := &Session{
		ID:       uuid.NewString(),
		Campaign: NewCampaign(seed),
	}
	if p.Level > 0 {
		sess.Campaign.Level = p.Level
	}
	s.sessions[sess.ID] = sess

	s.startLevel(sess, systems.Behavior(p.Behavior))
	sess.addLog(fmt.Sprintf("Уровень %d: %s.", sess.Game.Level.Number, sess.Game.Level.Name), "INFO")
	return s.respond(sess, "INIT")
}

// startLevel собирает партию текущего уровня кампании.
func (s *GameService) startLevel(sess *Session, behavior systems.Behavior) {
	level := s.levels.LevelByNumber(sess.Campaign.Level)
	sess.Game = NewGame(sess.Campaign.Seed, level, behavior, sess.Campaign.Roster)
}

func (s *GameService) handleMoves(sess *Session, cmd api.ClientCommand) *api.ServerResponse {
	var p api.SquarePayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}
	resp := s.respond(sess, "UPDATE")
	resp.Board = nil
	resp.Moves = sess.Game.LegalMoves(p.X, p.Y)
	return resp
}

func (s *GameService) handleOdds(sess *Session, cmd api.ClientCommand) *api.ServerResponse {
	var p api.MovePayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}
	odds := sess.Game.Odds(
		domain.Square{X: p.FromX, Y: p.FromY},
		domain.Square{X: p.ToX, Y: p.ToY},
	)
	resp := s.respond(sess, "UPDATE")
	resp.Board = nil
	resp.Odds = &odds
	return resp
}

func (s *GameService) handleMove(sess *Session, cmd api.ClientCommand) *api.ServerResponse {
	var p api.MovePayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}

	from := domain.Square{X: p.FromX, Y: p.FromY}
	to := domain.Square{X: p.ToX, Y: p.ToY}
	pc, err := sess.Game.PerformMove(from, to)
	if err != nil {
		return errorResponse(sess.ID, err.Error())
	}

	if pc != nil {
		s.logCombatSpeech(sess, pc)
		return s.respond(sess, "COMBAT")
	}

	s.runBlack(sess)
	return s.respond(sess, "UPDATE")
}

func (s *GameService) handlePray(sess *Session) *api.ServerResponse {
	if _, err := sess.Game.Pray(); err != nil {
		return errorResponse(sess.ID, err.Error())
	}
	sess.addLog("Молитва услышана: кубики брошены заново.", "COMBAT")
	return s.respond(sess, "COMBAT")
}

func (s *GameService) handleConfirm(sess *Session) *api.ServerResponse {
	if err := sess.Game.Confirm(); err != nil {
		return errorResponse(sess.ID, err.Error())
	}
	s.runBlack(sess)
	return s.respond(sess, "UPDATE")
}

func (s *GameService) handleBreakDisguise(sess *Session, cmd api.ClientCommand) *api.ServerResponse {
	var p api.SquarePayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}
	if err := sess.Game.BreakDisguise(domain.Square{X: p.X, Y: p.Y}); err != nil {
		return errorResponse(sess.ID, err.Error())
	}
	sess.addLog("Маскировка сброшена.", "INFO")
	return s.respond(sess, "UPDATE")
}

func (s *GameService) handleNextLevel(sess *Session) *api.ServerResponse {
	g := sess.Game
	if !g.Over() || g.Winner != domain.White {
		return errorResponse(sess.ID, "the level is not won yet")
	}

	sess.Campaign.Advance(g)
	s.startLevel(sess, g.Behavior)
	sess.addLog(fmt.Sprintf("Уровень %d: %s.", sess.Game.Level.Number, sess.Game.Level.Name), "INFO")
	return s.respond(sess, "UPDATE")
}

func (s *GameService) handleSave(sess *Session, cmd api.ClientCommand) *api.ServerResponse {
	if s.store == nil {
		return errorResponse(sess.ID, "saving is disabled")
	}
	var p api.SlotPayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}

	payload, err := json.Marshal(sess.Campaign)
	if err != nil {
		return errorResponse(sess.ID, err.Error())
	}
	err = s.store.SaveSlot(storage.SlotRecord{
		Slot:    p.Slot,
		Seed:    sess.Campaign.Seed,
		Level:   sess.Campaign.Level,
		Payload: payload,
	})
	if err != nil {
		return errorResponse(sess.ID, err.Error())
	}
	sess.addLog(fmt.Sprintf("Кампания сохранена в слот %d.", p.Slot), "INFO")
	return s.respond(sess, "UPDATE")
}

func (s *GameService) handleLoad(cmd api.ClientCommand) *api.ServerResponse {
	if s.store == nil {
		return errorResponse("", "saving is disabled")
	}
	var p api.SlotPayload
	if resp := parsePayload(cmd, &p); resp != nil {
		return resp
	}

	rec, err := s.store.LoadSlot(p.Slot)
	if err != nil {
		return errorResponse("", err.Error())
	}
	var camp Campaign
	if err := json.Unmarshal(rec.Payload, &camp); err != nil {
		return errorResponse("", fmt.Sprintf("corrupt save slot %d: %v", p.Slot, err))
	}

	sess := &Session{ID: uuid.NewString(), Campaign: &camp}
	s.sessions[sess.ID] = sess
	s.startLevel(sess, "")
	sess.addLog(fmt.Sprintf("Кампания загружена: уровень %d.", camp.Level), "INFO")
	return s.respond(sess, "INIT")
}

// runBlack крутит ходы черных, пока очередь не вернется к белым.
// Пропуски ходов обеих сторон обрабатываются здесь же; предохранитель
// на случай взаимного вечного пропуска - жесткий лимит итераций.
func (s *GameService) runBlack(sess *Session) {
	g := sess.Game
	for guard := 0; guard < 2*g.Board.Size*g.Board.Size; guard++ {
		if g.Over() {
			return
		}

		if g.Turn == domain.White {
			switch EvaluateStanding(g.Board, domain.White) {
			case Checkmate:
				g.Winner = domain.Black
				sess.addLog("Мат. Король пал.", "COMBAT")
			case SkipStunned:
				sess.addLog("Ваши фигуры оглушены: ход пропущен.", "INFO")
				_ = g.SkipTurn()
				continue
			case SkipNoMoves:
				sess.addLog("Ходов нет: ход пропущен.", "INFO")
				_ = g.SkipTurn()
				continue
			}
			return
		}

		switch EvaluateStanding(g.Board, domain.Black) {
		case Checkmate:
			g.Winner = domain.White
			sess.addLog("Мат черному королю.", "COMBAT")
			return
		case SkipStunned, SkipNoMoves:
			sess.addLog("Противник пропускает ход.", "INFO")
			_ = g.SkipTurn()
			continue
		}

		choice, err := g.BotTurn()
		if err != nil {
			logger.Log.WithError(err).WithField("session", sess.ID).Error("Bot turn failed")
			_ = g.SkipTurn()
			continue
		}
		if choice != nil {
			s.logBotMove(sess, choice)
		}
	}
}

func (s *GameService) logBotMove(sess *Session, choice *systems.BotMove) {
	g := sess.Game
	if pc := g.LastCombat; pc != nil && pc.From == choice.From && pc.To == choice.To {
		s.logCombatSpeech(sess, pc)
		if pc.Piece != nil && pc.Piece.Win {
			sess.addLog("Противник выигрывает бой.", "COMBAT")
		} else if pc.Piece != nil && !pc.Piece.BellSaved {
			sess.addLog("Противник проигрывает бой.", "COMBAT")
		}
	}
}

// logCombatSpeech дает участникам боя вставить реплику.
func (s *GameService) logCombatSpeech(sess *Session, pc *PendingCombat) {
	g := sess.Game
	for _, sq := range []domain.Square{pc.From, pc.To} {
		if line := SpeechLine(g, g.Board.PieceAt(sq.X, sq.Y)); line != "" {
			sess.addLog(line, "SPEECH")
		}
	}
}

// respond собирает полный снимок для клиента и забирает накопленный лог.
func (s *GameService) respond(sess *Session, respType string) *api.ServerResponse {
	g := sess.Game
	resp := &api.ServerResponse{
		Type:        respType,
		SessionID:   sess.ID,
		Turn:        g.Turn,
		Level:       g.Level.Number,
		LevelName:   g.Level.Name,
		Board:       BuildBoardView(g),
		PrayersLeft: g.PrayersLeft,
		Logs:        sess.logs,
		Campaign: &api.CampaignView{
			Level:     sess.Campaign.Level,
			Gold:      sess.Campaign.Gold + g.GoldEarned,
			Prayers:   g.PrayersLeft,
			Unlocks:   sess.Campaign.Unlocks,
			FreeUnits: sess.Campaign.FreeUnits,
			FreeItems: sess.Campaign.FreeItems,
		},
	}
	sess.logs = nil

	if g.Over() {
		resp.Type = "GAME_OVER"
		resp.Outcome = string(g.Winner)
	} else if g.Turn == domain.White && g.Pending() == nil {
		resp.Standing = string(EvaluateStanding(g.Board, domain.White))
	}

	if pc := g.Pending(); pc != nil {
		resp.Combat = &api.CombatView{
			From:     pc.From,
			To:       pc.To,
			Piece:    pc.Piece,
			Obstacle: pc.Obstacle,
			CanPray:  !pc.Prayed && g.PrayersLeft > 0 && pc.Lost() && !pc.Forced(),
		}
	}
	return resp
}

func parsePayload(cmd api.ClientCommand, v api.Validator) *api.ServerResponse {
	if err := json.Unmarshal(cmd.Payload, v); err != nil {
		return errorResponse(cmd.SessionID, "malformed payload: "+err.Error())
	}
	if err := v.Validate(); err != nil {
		return errorResponse(cmd.SessionID, err.Error())
	}
	return nil
}

func errorResponse(sessionID, msg string) *api.ServerResponse {
	return &api.ServerResponse{Type: "ERROR", SessionID: sessionID, Error: msg}
}

// --- DEBUG ---

// SessionSummary - сводка сессии для отладочных ручек.
type SessionSummary struct {
	ID      string       `json:"id"`
	Level   int          `json:"level"`
	Turn    domain.Color `json:"turn"`
	Winner  string       `json:"winner,omitempty"`
	Pieces  int          `json:"pieces"`
	Prayers int          `json:"prayers"`
}

// SessionSummaries возвращает сводку всех живых сессий.
func (s *GameService) SessionSummaries() []SessionSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []SessionSummary
	for _, sess := range s.sessions {
		g := sess.Game
		pieces := 0
		g.Board.ForEachPiece(func(int, int, *domain.Piece) { pieces++ })
		out = append(out, SessionSummary{
			ID:      sess.ID,
			Level:   g.Level.Number,
			Turn:    g.Turn,
			Winner:  string(g.Winner),
			Pieces:  pieces,
			Prayers: g.PrayersLeft,
		})
	}
	return out
}

// BoardDump возвращает текстовый снимок доски сессии.
func (s *GameService) BoardDump(sessionID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return "", false
	}
	return sess.Game.Board.Dump(), true
}
