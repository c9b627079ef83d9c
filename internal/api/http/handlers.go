package http

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebShell/internal/infrastructure/logging"
	"github.com/GriffinCanCode/WebShell/internal/session"
	"github.com/GriffinCanCode/WebShell/internal/shell"
)

// Handlers holds the REST API handlers and their dependencies.
type Handlers struct {
	sessions *session.Manager
	registry *shell.Registry
	log      *logging.Logger
	started  time.Time
}

// NewHandlers wires the REST handlers. logger may be nil.
func NewHandlers(sessions *session.Manager, registry *shell.Registry, logger *logging.Logger) *Handlers {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Handlers{
		sessions: sessions,
		registry: registry,
		log:      logger,
		started:  time.Now(),
	}
}

// Root returns service identification.
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "webshell",
		"status":  "running",
	})
}

// Health returns liveness plus a few cheap stats.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"sessions":       h.sessions.Count(),
		"commands":       len(h.registry.Names()),
		"uptime_seconds": int(time.Since(h.started).Seconds()),
	})
}

// CreateSessionRequest names a new session.
type CreateSessionRequest struct {
	Name string `json:"name"`
}

// CreateSession starts a new shell session.
func (h *Handlers) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		req.Name = "default"
	}

	sess, err := h.sessions.Create(c.Request.Context(), req.Name)
	if err != nil {
		h.log.Error("session create failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":         sess.ID,
		"name":       sess.Name,
		"created_at": sess.CreatedAt,
	})
}

// ListSessions returns all sessions, oldest first.
func (h *Handlers) ListSessions(c *gin.Context) {
	list := h.sessions.List()
	if list == nil {
		list = []session.Metadata{}
	}
	c.JSON(http.StatusOK, gin.H{"sessions": list})
}

// GetSession returns one session's metadata.
func (h *Handlers) GetSession(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":         sess.ID,
		"name":       sess.Name,
		"created_at": sess.CreatedAt,
		"cwd":        sess.FS.Cwd(),
		"history":    sess.FS.History(),
	})
}

// DeleteSession tears a session down.
func (h *Handlers) DeleteSession(c *gin.Context) {
	err := h.sessions.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.log.Error("session delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// ExecuteRequest carries one shell line.
type ExecuteRequest struct {
	Line string `json:"line" binding:"required"`
}

// Execute runs one shell line in a session. Pipeline failures (exit 1/127)
// are successful executions and come back 200 with the exit code in the
// body; only submission-level problems map to error statuses.
func (h *Handlers) Execute(c *gin.Context) {
	var req ExecuteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	res, err := h.sessions.Execute(c.Request.Context(), c.Param("id"), req.Line)
	if err != nil {
		h.executeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handlers) executeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, shell.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case shell.IsParseError(err):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		c.JSON(http.StatusRequestTimeout, gin.H{"error": err.Error()})
	default:
		h.log.Error("line execution failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// ListCommands returns the sorted registered command names.
func (h *Handlers) ListCommands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.registry.Names()})
}

// ExportSnapshot streams the session's filesystem as a compressed snapshot.
func (h *Handlers) ExportSnapshot(c *gin.Context) {
	payload, err := h.sessions.Snapshot(c.Param("id"))
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		h.log.Error("snapshot export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "application/gzip", payload)
}

// ImportSnapshot replaces the session's filesystem with an uploaded
// snapshot.
func (h *Handlers) ImportSnapshot(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil || len(payload) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing snapshot payload"})
		return
	}

	if err := h.sessions.Restore(c.Request.Context(), c.Param("id"), payload); err != nil {
		if errors.Is(err, session.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": true})
}
