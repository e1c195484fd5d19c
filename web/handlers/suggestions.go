package handlers

import (
	"net/http"
	"strings"

	"faq-agent/database"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SuggestionsHandler exposes the FAQ-curation queue built from unanswered
// questions.
type SuggestionsHandler struct {
	store  *database.PostgresStore
	logger *zap.Logger
}

func NewSuggestionsHandler(store *database.PostgresStore, logger *zap.Logger) *SuggestionsHandler {
	return &SuggestionsHandler{store: store, logger: logger}
}

// List handles GET /admin/suggestions: unanswered questions, most frequent
// first.
func (h *SuggestionsHandler) List(c *gin.Context) {
	suggestions, err := h.store.ListUnanswered(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list suggestions", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions})
}

type statusUpdateRequest struct {
	Question string `json:"question"`
	Status   string `json:"status"`
}

// UpdateStatus handles POST /admin/suggestions/status, e.g. marking a
// question 回答済み once the FAQ has been extended.
func (h *SuggestionsHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil ||
		strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.Status) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "question and status are required"})
		return
	}

	if err := h.store.UpdateSuggestionStatus(c.Request.Context(), req.Question, req.Status); err != nil {
		h.logger.Warn("Failed to update suggestion status",
			zap.String("status", req.Status),
			zap.Error(err))
		c.JSON(http.StatusNotFound, gin.H{"error": "suggestion not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
