package app

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/pkg/logger"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"
)

// pingPeriod keep-alive ping interval
const pingPeriod = 30 * time.Second

// EditorWebsocketHandler canvas / media bridge of the editing session
type EditorWebsocketHandler struct {
	session *Session
}

// NewEditorWebsocketHandler create EditorWebsocketHandler
func NewEditorWebsocketHandler(session *Session) *EditorWebsocketHandler {
	return &EditorWebsocketHandler{session: session}
}

// wsClient one connection, doubles as the media element of that client
type wsClient struct {
	conn        *websocket.Conn
	mu          sync.Mutex
	sentVersion uint64
}

func (c *wsClient) send(resp domain.WSResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

// sendState drops a snapshot older than the last one written
func (c *wsClient) sendState(state domain.SessionState) error {
	b, err := json.Marshal(domain.WSResponse{Action: domain.StateAction, Success: true, State: &state})
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if state.Version <= c.sentVersion {
		return nil
	}
	c.sentVersion = state.Version
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

func (c *wsClient) media(cmd domain.MediaCommand) error {
	return c.send(domain.WSResponse{Action: domain.MediaCommandAction, Success: true, Media: &cmd})
}

// Play media element play
func (c *wsClient) Play() error { return c.media(domain.MediaCommand{Command: "play"}) }

// Pause media element pause
func (c *wsClient) Pause() error { return c.media(domain.MediaCommand{Command: "pause"}) }

// Seek media element seek
func (c *wsClient) Seek(t float64) error {
	return c.media(domain.MediaCommand{Command: "seek", Time: t})
}

func (c *wsClient) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(websocket.PingMessage, []byte("ping"), time.Now().Add(time.Second))
}

// HandleConnection websocket entry point
func (h *EditorWebsocketHandler) HandleConnection(ctx context.Context, conn *websocket.Conn) {
	client := &wsClient{conn: conn}
	remote := conn.RemoteAddr().String()
	logger.Log.Info("websocket open", zap.String("remote", remote))

	ticker := time.NewTicker(pingPeriod)
	ctxClose, cancel := context.WithCancel(ctx)

	detach := h.session.AttachMedia(client)
	unsubscribe := h.session.Subscribe(func(state domain.SessionState) {
		h.sendState(client, state)
	})

	defer func() {
		ticker.Stop()
		cancel()
		unsubscribe()
		detach()
		// a gesture never outlives its socket
		h.session.ReleasePointers()
		conn.Close()
		logger.Log.Info("websocket close", zap.String("remote", remote))
	}()

	conn.SetCloseHandler(func(code int, text string) error {
		logger.Log.Debug("websocket close frame", zap.Int("code", code), zap.String("text", text))
		return nil
	})

	conn.SetPongHandler(func(appData string) error {
		logger.Log.Debug("websocket pong", zap.String("remote", remote))
		return nil
	})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := client.ping(); err != nil {
					logger.Log.Warn("websocket ping failed", zap.Error(err))
					return
				}
			case <-ctxClose.Done():
				return
			}
		}
	}()

	h.sendState(client, h.session.State())

	for {
		mt, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived,
			) {
				logger.Log.Debug("websocket closed", zap.Error(err))
			} else {
				logger.Log.Warn("websocket read error", zap.Error(err))
			}
			return
		}
		if mt != websocket.TextMessage {
			h.sendError(client, "unknown message type")
			continue
		}
		h.textMessageAction(client, message)
	}
}

func (h *EditorWebsocketHandler) textMessageAction(client *wsClient, msg []byte) {
	var req domain.WSRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		h.sendError(client, "invalid message")
		return
	}

	var err error
	switch req.Action {
	case domain.PointerDownMove, domain.PointerDownResize,
		domain.PointerMove, domain.PointerUp, domain.PointerCancel:
		err = h.session.HandlePointer(req)

	case domain.MediaLoadedMetadata:
		err = h.session.LoadMetadata(req.Duration)

	case domain.MediaTimeUpdate:
		h.session.TimeUpdate(req.Time)

	case domain.StateAction:
		h.sendState(client, h.session.State())
		return

	default:
		h.sendError(client, "unknown action ["+string(req.Action)+"]")
		return
	}

	// state changes reach the client through the subscription, only failures are answered
	if err != nil {
		logger.Log.Warn("websocket action failed", zap.String("action", string(req.Action)), zap.Error(err))
		h.sendResponse(client, domain.WSResponse{Action: req.Action, Success: false, Error: errMessage(err)})
	}
}

func (h *EditorWebsocketHandler) sendResponse(client *wsClient, resp domain.WSResponse) {
	if err := client.send(resp); err != nil {
		logger.Log.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *EditorWebsocketHandler) sendState(client *wsClient, state domain.SessionState) {
	if err := client.sendState(state); err != nil {
		logger.Log.Warn("websocket write failed", zap.Error(err))
	}
}

func (h *EditorWebsocketHandler) sendError(client *wsClient, msg string) {
	h.sendResponse(client, domain.WSResponse{Action: "error", Success: false, Error: msg})
}
