package api

import (
	"encoding/json"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/domain"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/systems"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Он представляет собой полный "снимок" партии, видимый для конкретного
// клиента, с учетом тумана войны и маскировки вражеских фигур.
type ServerResponse struct {
	// Type тип сообщения: "INIT", "UPDATE", "COMBAT", "GAME_OVER", "ERROR".
	Type string `json:"type"`

	// SessionID идентификатор сессии. Клиент обязан возвращать его
	// в каждой следующей команде.
	SessionID string `json:"sessionId,omitempty"`

	// Turn чья очередь ходить.
	Turn domain.Color `json:"turn,omitempty"`

	// Level номер и название текущего уровня.
	Level     int    `json:"level,omitempty"`
	LevelName string `json:"levelName,omitempty"`

	// Board снимок доски. Отсутствует в ответах на чистые запросы
	// (MOVES, ODDS), где доска не менялась.
	Board *BoardView `json:"board,omitempty"`

	// Moves ответ на запрос MOVES: допустимые ходы выбранной фигуры.
	Moves []systems.Move `json:"moves,omitempty"`

	// Odds ответ на запрос ODDS: шанс победы в процентах.
	Odds *int `json:"odds,omitempty"`

	// Combat раскладка последнего боя: кубики, модификаторы, история
	// бросков для анимации. Присутствует, пока бой не подтвержден.
	Combat *CombatView `json:"combat,omitempty"`

	// PrayersLeft сколько перемаливаний осталось на уровне.
	PrayersLeft int `json:"prayersLeft"`

	// Outcome итог партии: "", "white", "black".
	Outcome string `json:"outcome,omitempty"`

	// Standing положение стороны, которой принадлежит ход:
	// playing / check / checkmate / skip_stunned / skip_no_moves.
	Standing string `json:"standing,omitempty"`

	// Campaign сводка кампании (золото, молитвы, открытые предметы).
	Campaign *CampaignView `json:"campaign,omitempty"`

	// Logs новые записи игрового лога с прошлого ответа.
	Logs []LogEntry `json:"logs,omitempty"`

	// Error текст ошибки при Type="ERROR".
	Error string `json:"error,omitempty"`
}

// BoardView это DTO доски: размер, клетки рельефа и препятствий,
// фигуры и служебные ряды.
type BoardView struct {
	Size int `json:"size"`

	// Pieces все видимые клиенту фигуры.
	Pieces []PieceView `json:"pieces"`

	// Terrain и Obstacles разреженные списки непустых клеток.
	Terrain   []CellView `json:"terrain,omitempty"`
	Obstacles []CellView `json:"obstacles,omitempty"`

	// EscapeRow ряд побега или -1.
	EscapeRow int `json:"escapeRow"`

	// FogFromRow первый скрытый туманом ряд или -1, если тумана нет.
	// Клетки с y >= FogFromRow рендерятся затемненными, фигуры там
	// в Pieces не попадают.
	FogFromRow int `json:"fogFromRow"`
}

// PieceView это DTO фигуры. Для вражеской фигуры под маскировкой
// Type содержит видимый тип (пешку), а OriginalType пуст - правду
// знает только сервер.
type PieceView struct {
	ID    string           `json:"id"`
	X     int              `json:"x"`
	Y     int              `json:"y"`
	Type  domain.PieceType `json:"type"`
	Color domain.Color     `json:"color"`

	Equip        domain.Equipment `json:"equip,omitempty"`
	OriginalType domain.PieceType `json:"originalType,omitempty"`
	Name         string           `json:"name,omitempty"`

	Kills     int  `json:"kills,omitempty"`
	Veteran   bool `json:"veteran,omitempty"`
	Stun      int  `json:"stun,omitempty"`
	Exhausted bool `json:"exhausted,omitempty"`
	Shadow    int  `json:"shadow,omitempty"`
}

// CellView одна непустая клетка рельефа или препятствий.
type CellView struct {
	X    int    `json:"x"`
	Y    int    `json:"y"`
	Kind string `json:"kind"`
}

// CombatView это DTO неподтвержденного боя.
type CombatView struct {
	From domain.Square `json:"from"`
	To   domain.Square `json:"to"`

	// Piece результат боя фигура-против-фигуры (nil для препятствия).
	Piece *systems.Outcome `json:"piece,omitempty"`

	// Obstacle результат сноса препятствия (nil для боя фигур).
	Obstacle *systems.ObstacleOutcome `json:"obstacle,omitempty"`

	// CanPray можно ли перемолить этот бой: проигран, бросок не был
	// навязан и молитвы еще остались.
	CanPray bool `json:"canPray"`
}

// CampaignView сводка кампании для панели клиента.
type CampaignView struct {
	Level     int                `json:"level"`
	Gold      int                `json:"gold"`
	Prayers   int                `json:"prayers"`
	Unlocks   []domain.Equipment `json:"unlocks,omitempty"`
	FreeUnits int                `json:"freeUnits"`
	FreeItems int                `json:"freeItems"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, SPEECH, ERROR
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента.
type ClientCommand struct {
	// SessionID идентификатор сессии из ответа на NEW_GAME.
	// Пуст только в INIT и NEW_GAME.
	SessionID string `json:"sessionId,omitempty"`

	// Action название действия: INIT, NEW_GAME, MOVES, ODDS, MOVE,
	// PRAY, CONFIRM, BREAK_DISGUISE, NEXT_LEVEL, SAVE, LOAD.
	Action string `json:"action"`

	// Payload JSON-объект с данными действия. Структура зависит от Action.
	// У команд без данных (CONFIRM, PRAY) поле отсутствует.
	Payload json.RawMessage `json:"payload,omitempty"`
}

// --- Payloads ---

// NewGamePayload запускает новую кампанию.
type NewGamePayload struct {
	// Seed свободная строка-зерно. Пустая = случайное зерно.
	Seed string `json:"seed,omitempty"`

	// Level стартовый уровень (по умолчанию 1).
	Level int `json:"level,omitempty"`

	// Behavior профиль бота: aggressive / defensive / balanced.
	// Пустой = профиль из описания уровня.
	Behavior string `json:"behavior,omitempty"`
}

// SquarePayload используется для запросов по одной клетке (MOVES, BREAK_DISGUISE).
type SquarePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// MovePayload используется для MOVE и ODDS.
type MovePayload struct {
	FromX int `json:"fromX"`
	FromY int `json:"fromY"`
	ToX   int `json:"toX"`
	ToY   int `json:"toY"`
}

// SlotPayload используется для SAVE и LOAD.
type SlotPayload struct {
	Slot int `json:"slot"`
}
