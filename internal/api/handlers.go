package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"homefront/server/internal/models"
	"homefront/server/internal/tools"
)

// ToolCaller is the dispatcher as seen by the HTTP layer.
type ToolCaller interface {
	Definitions() []models.ToolDefinition
	Call(ctx context.Context, name string, args map[string]interface{}) (*models.ToolResponse, error)
}

type Handler struct {
	tools    ToolCaller
	provider string
	logger   *logrus.Logger
}

// NewHandler builds the tool handlers. provider names the data source
// reported by the health check ("live" or "demo").
func NewHandler(caller ToolCaller, provider string, logger *logrus.Logger) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Handler{
		tools:    caller,
		provider: provider,
		logger:   logger,
	}
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"provider": h.provider,
	})
}

func (h *Handler) ListTools(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tools": h.tools.Definitions()})
}

// CallTool runs the named tool with the JSON body as its arguments. An empty
// body means no arguments.
func (h *Handler) CallTool(c *gin.Context) {
	name := c.Param("name")

	var args map[string]interface{}
	if err := c.ShouldBindJSON(&args); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).WithField("tool", name).Info("Failed to parse tool arguments")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Request body must be a JSON object"})
		return
	}

	response, err := h.tools.Call(c.Request.Context(), name, args)
	switch {
	case errors.Is(err, tools.ErrUnknownTool):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, tools.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case err != nil:
		h.logger.WithError(err).WithField("tool", name).Error("Failed to call tool")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to call tool"})
		return
	}

	c.JSON(http.StatusOK, response)
}
