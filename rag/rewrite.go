package rag

import (
	"context"
	"fmt"
	"strings"

	"faq-agent/prompts"
	"faq-agent/web/types"

	"go.uber.org/zap"
)

const rewriteTemperature = 0.3

// Rewrite turns a follow-up question into a standalone search query using
// the recent session history. Best effort: with no history the question is
// returned as-is without any external call, and any collaborator fault
// degrades to the original question.
func (r *RAG) Rewrite(ctx context.Context, question string, history []types.Message) string {
	if len(history) == 0 {
		return question
	}

	size := r.cfg.RewriteHistorySize
	if size <= 0 {
		size = 4
	}
	if len(history) > size {
		history = history[len(history)-size:]
	}

	var contextText strings.Builder
	for _, turn := range history {
		fmt.Fprintf(&contextText, "%s: %s\n", turn.Role, turn.Content)
	}

	host := r.cfg.RewriteLLMHost
	if host == "" {
		host = r.cfg.MainLLMHost
	}

	temperature := rewriteTemperature
	messages := []types.Message{
		{Role: "system", Content: prompts.Rewrite()},
		{Role: "user", Content: fmt.Sprintf("以下は直前の会話です：\n\n%s\nその上で、ユーザーの次の発言を明確な検索文にしてください。\nユーザーの質問：「%s」\n\n→ 変換後の検索文（日本語で）：", contextText.String(), question)},
	}

	rewritten, err := r.llm.Chat(ctx, host, messages, &temperature)
	if err != nil {
		r.logger.Warn("Query rewrite failed, using original question", zap.Error(err))
		return question
	}

	rewritten = strings.TrimSpace(rewritten)
	if rewritten == "" {
		return question
	}
	r.logger.Debug("Query rewritten",
		zap.String("original", question),
		zap.String("rewritten", rewritten))
	return rewritten
}
