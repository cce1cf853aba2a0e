package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
)

// History reads the invocation audit log.
type History interface {
	RecentInvocations(ctx context.Context, limit int) ([]models.Invocation, error)
	ToolStats(ctx context.Context) ([]models.ToolStats, error)
}

type HistoryHandler struct {
	history History
	logger  *logrus.Logger
}

func NewHistoryHandler(history History, logger *logrus.Logger) *HistoryHandler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &HistoryHandler{
		history: history,
		logger:  logger,
	}
}

// ListInvocations returns the most recent tool calls, newest first
func (h *HistoryHandler) ListInvocations(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
		return
	}

	invocations, err := h.history.RecentInvocations(c.Request.Context(), limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get invocations")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get invocations"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"invocations": invocations})
}

// InvocationStats returns per-tool call counts
func (h *HistoryHandler) InvocationStats(c *gin.Context) {
	stats, err := h.history.ToolStats(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get invocation stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get invocation stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"tools": stats})
}
