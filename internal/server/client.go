package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/SunpowderDev/Dice-Chess-Project-sub000/internal/engine"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/api"
	"github.com/SunpowderDev/Dice-Chess-Project-sub000/pkg/logger"

	"github.com/gorilla/websocket"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService.
// Играющий клиент получает ответы на свои команды напрямую;
// Hub раздает те же ответы зрителям сессии.
type Client struct {
	Game      *engine.GameService
	Conn      *websocket.Conn
	Send      chan api.ServerResponse
	SessionID string
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		close(c.Send)
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection")
		}
		logger.Log.WithField("session", c.SessionID).Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logger.Log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Errorf("WS Error: %v", err)
			}
			return
		}

		// Сессия привязывается к соединению после первого NEW_GAME/LOAD;
		// дальше клиент не может говорить от имени чужой сессии.
		if c.SessionID != "" {
			cmd.SessionID = c.SessionID
		}

		resp := c.Game.ProcessCommand(cmd)
		if c.SessionID == "" && resp.SessionID != "" {
			c.SessionID = resp.SessionID
			logger.Log.WithField("session", c.SessionID).Info("Client bound to session")
		}

		select {
		case c.Send <- *resp:
		default:
			logger.Log.WithField("session", c.SessionID).Warn("Send buffer full, dropping response")
		}
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					logger.Log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				logger.Log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				logger.Log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logger.Log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}

// runSpectator стримит зрителю ответы чужой сессии через Hub.
// Первое сообщение зрителя - {"action":"WATCH","sessionId":...}.
func (c *Client) runSpectator() {
	defer func() {
		if err := c.Conn.Close(); err != nil {
			logger.Log.WithError(err).Warn("failed to close spectator connection")
		}
	}()

	var cmd api.ClientCommand
	if err := c.Conn.ReadJSON(&cmd); err != nil || cmd.Action != "WATCH" || cmd.SessionID == "" {
		logger.Log.Warn("Spectator handshake failed")
		return
	}
	c.SessionID = cmd.SessionID

	updates := c.Game.Hub.Subscribe(c.SessionID)
	defer c.Game.Hub.Unsubscribe(c.SessionID, updates)
	logger.Log.WithField("session", c.SessionID).Info("Spectator joined")

	for msg := range updates {
		if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			logger.Log.WithError(err).Warn("failed to set spectator write deadline")
		}
		data, err := json.Marshal(msg)
		if err != nil {
			continue
		}
		if err := c.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}
