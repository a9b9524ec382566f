package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"pursuit-server/internal/engine"
	"pursuit-server/pkg/api"
	"pursuit-server/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и сессией
type Client struct {
	Game    *engine.GameService
	Conn    *websocket.Conn
	Session *engine.Session

	// updates - снимки сессии из Hub. Закрывается, когда сессия завершилась.
	updates <-chan api.ServerResponse
	cancel  context.CancelFunc
	log     *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn, session *engine.Session,
	updates <-chan api.ServerResponse, cancel context.CancelFunc) *Client {
	return &Client{
		Game:    game,
		Conn:    conn,
		Session: session,
		updates: updates,
		cancel:  cancel,
		log:     logger.Component("ws").WithField("session_id", session.ID),
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		// Разрыв соединения завершает сессию
		c.cancel()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log.Info("Client connected")

	// ЦИКЛ ЧТЕНИЯ КОМАНД
	for {
		var cmd api.ClientCommand
		err := c.Conn.ReadJSON(&cmd)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}

		if err := c.Session.Submit(context.Background(), cmd); err != nil {
			if errors.Is(err, engine.ErrSessionClosed) {
				return
			}
			// Неизвестное действие: сообщаем клиенту, соединение живет
			c.Game.Hub.SendTo(c.Session.ID, api.ServerResponse{
				Type:      api.ResponseError,
				SessionID: c.Session.ID,
				Error:     err.Error(),
			})
		}
	}
}

// writePump отправляет снимки клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.updates:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if !ok {
				// Сессия завершилась
				if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
					c.log.WithError(err).Debug("write close message failed")
				}
				return
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}
		}
	}
}
