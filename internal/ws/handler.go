package ws

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebShell/internal/session"
	"github.com/GriffinCanCode/WebShell/internal/shell"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow all origins in dev
	},
}

// Message is the client-to-server frame.
type Message struct {
	Type      string `json:"type"`
	SessionID string `json:"session_id,omitempty"`
	Line      string `json:"line,omitempty"`
}

// Handler manages WebSocket shell connections.
type Handler struct {
	sessions *session.Manager
	log      *logging.Logger
	metrics  *monitoring.Metrics
}

// NewHandler creates a WebSocket handler. logger may be nil; metrics is
// optional.
func NewHandler(sessions *session.Manager, logger *logging.Logger, metrics *monitoring.Metrics) *Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handler{
		sessions: sessions,
		log:      logger,
		metrics:  metrics,
	}
}

// HandleConnection upgrades the request and serves shell messages until the
// client goes away.
func (h *Handler) HandleConnection(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	if h.metrics != nil {
		h.metrics.IncWSConnections()
		defer h.metrics.DecWSConnections()
	}

	reqCtx := c.Request.Context()

	h.send(conn, gin.H{
		"type":    "system",
		"message": "connected",
	})

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read ended", zap.Error(err))
			}
			return
		}
		h.recordMessage("in", msg.Type)

		switch msg.Type {
		case "execute":
			h.handleExecute(reqCtx, conn, msg)
		case "ping":
			h.send(conn, gin.H{"type": "pong"})
		default:
			h.sendError(conn, "unknown message type")
		}
	}
}

func (h *Handler) handleExecute(ctx context.Context, conn *websocket.Conn, msg Message) {
	res, err := h.sessions.Execute(ctx, msg.SessionID, msg.Line)
	if err != nil {
		switch {
		case errors.Is(err, session.ErrNotFound):
			h.sendError(conn, "session not found")
		case errors.Is(err, shell.ErrBusy):
			h.sendError(conn, err.Error())
		case shell.IsParseError(err):
			h.sendError(conn, err.Error())
		default:
			h.log.Error("websocket line execution failed", zap.Error(err))
			h.sendError(conn, err.Error())
		}
		return
	}

	h.send(conn, gin.H{
		"type":      "result",
		"stdout":    res.Stdout,
		"stderr":    res.Stderr,
		"exit_code": res.ExitCode,
	})
}

func (h *Handler) send(conn *websocket.Conn, payload gin.H) {
	if err := conn.WriteJSON(payload); err != nil {
		h.log.Debug("websocket write failed", zap.Error(err))
		return
	}
	if t, ok := payload["type"].(string); ok {
		h.recordMessage("out", t)
	}
}

func (h *Handler) sendError(conn *websocket.Conn, message string) {
	h.send(conn, gin.H{"type": "error", "error": message})
}

func (h *Handler) recordMessage(direction, msgType string) {
	if h.metrics != nil {
		h.metrics.RecordWSMessage(direction, msgType)
	}
}
