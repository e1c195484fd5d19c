package handlers

import (
	"net/http"

	"faq-agent/agent"
	apperrors "faq-agent/errors"
	"faq-agent/web/format"
	"faq-agent/web/types"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ChatHandler struct {
	agent  *agent.Agent
	logger *zap.Logger
}

func NewChatHandler(agent *agent.Agent, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		agent:  agent,
		logger: logger,
	}
}

// Chat handles POST /chat. A missing or empty question is a client error;
// collaborator faults surface as a generic apologetic reply, never the raw
// error.
func (h *ChatHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Failed to bind chat request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "質問がありません"})
		return
	}

	reply, err := h.agent.Answer(c.Request.Context(), req.Question, req.SessionID)
	if err != nil {
		if apperrors.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "質問がありません"})
			return
		}
		h.logger.Error("Chat pipeline failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{
			"response": "エラーが発生しました。",
			"error":    "internal error",
		})
		return
	}

	reply.ResponseHTML = format.AnswerHTML(reply.Response)
	c.JSON(http.StatusOK, reply)
}

// Feedback handles POST /feedback. The three required fields must all be
// present; recording failures are a server error with no detail leaked.
func (h *ChatHandler) Feedback(c *gin.Context) {
	var req types.FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "不完全なフィードバックデータです"})
		return
	}

	if err := h.agent.RecordFeedback(c.Request.Context(), req); err != nil {
		if apperrors.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "不完全なフィードバックデータです"})
			return
		}
		h.logger.Error("Failed to record feedback", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// Home handles GET / as a liveness probe.
func (h *ChatHandler) Home(c *gin.Context) {
	c.String(http.StatusOK, "Chatbot API is running.")
}
