// Package agent implements the answer orchestrator: input normalization,
// the greeting short-circuit, query rewriting, retrieval, structured
// matching, context fusion and the final generation call.
package agent

import (
	"context"
	"strings"
	"time"

	"faq-agent/config"
	apperrors "faq-agent/errors"
	"faq-agent/matcher"
	"faq-agent/rag"
	"faq-agent/session"
	"faq-agent/web/types"

	"go.uber.org/zap"
)

// Retriever is the semantic-search collaborator.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int) (rag.Results, error)
	Rewrite(ctx context.Context, question string, history []types.Message) string
	MetadataNote() string
}

// Generator produces the final natural-language answer.
type Generator interface {
	Chat(ctx context.Context, host string, messages []types.Message, temperature *float64) (string, error)
}

// EventRecorder receives unanswered-question and feedback events.
// Recording is fire-and-forget; failures never affect the user response.
type EventRecorder interface {
	RecordEvent(ctx context.Context, kind string, fields []string) error
	UpsertUnanswered(ctx context.Context, question string) error
}

type Agent struct {
	cfg       *config.Config
	llm       Generator
	retriever Retriever
	matcher   *matcher.Matcher
	sessions  *session.Store
	events    EventRecorder // may be nil
	logger    *zap.Logger
}

func NewAgent(cfg *config.Config, llm Generator, retriever Retriever, m *matcher.Matcher, sessions *session.Store, events EventRecorder, logger *zap.Logger) *Agent {
	return &Agent{
		cfg:       cfg,
		llm:       llm,
		retriever: retriever,
		matcher:   m,
		sessions:  sessions,
		events:    events,
		logger:    logger,
	}
}

// Answer runs the full per-request pipeline and returns the reply payload.
// The only error it returns is ErrInvalidInput for an empty question;
// collaborator faults degrade to the generic apology reply.
func (a *Agent) Answer(ctx context.Context, question, sessionID string) (types.ChatReply, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return types.ChatReply{}, apperrors.WrapError(apperrors.ErrInvalidInput, "question is empty")
	}
	if sessionID == "" {
		sessionID = "default"
	}

	normalized := matcher.Normalize(question)

	// Greetings get a canned reply with no retrieval or generation.
	if isGreeting(normalized) {
		a.sessions.Append(sessionID, "assistant", greetingReply)
		return reply(greetingReply, question, question), nil
	}

	history := a.sessions.GetHistory(sessionID)
	a.sessions.Append(sessionID, "user", question)

	expanded := a.retriever.Rewrite(ctx, question, history)

	hits, err := a.retriever.Retrieve(ctx, expanded, a.cfg.SearchResults)
	if err != nil {
		a.logger.Error("Retrieval failed", zap.String("session_id", sessionID), zap.Error(err))
		a.sessions.Append(sessionID, "assistant", faultReply)
		return reply(faultReply, question, expanded), nil
	}

	entities := matcher.Extract(question)
	match := a.matcher.Match(entities)

	fused := rag.Fuse(hits, match, a.retriever.MetadataNote(), rag.FuseOptions{
		FAQMax:       a.cfg.FAQSnippetMax,
		ReferenceMax: a.cfg.ReferenceMax,
	})

	if fused.Empty() {
		a.sessions.Append(sessionID, "assistant", outOfDomainReply)
		return reply(outOfDomainReply, question, expanded), nil
	}

	answer, err := a.generate(ctx, question, fused)
	if err != nil {
		a.logger.Error("Generation failed", zap.String("session_id", sessionID), zap.Error(err))
		a.sessions.Append(sessionID, "assistant", faultReply)
		return reply(faultReply, question, expanded), nil
	}

	if containsApologyMarker(answer) {
		a.recordUnanswered(question)
	}

	a.sessions.Append(sessionID, "assistant", answer)
	return reply(answer, question, expanded), nil
}

// RecordFeedback forwards a validated feedback payload to the event sink.
func (a *Agent) RecordFeedback(ctx context.Context, fb types.FeedbackRequest) error {
	if strings.TrimSpace(fb.Question) == "" || strings.TrimSpace(fb.Answer) == "" || strings.TrimSpace(fb.Feedback) == "" {
		return apperrors.WrapError(apperrors.ErrInvalidInput, "incomplete feedback data")
	}
	if a.events == nil {
		a.logger.Info("Feedback received (no event sink configured)",
			zap.String("feedback", fb.Feedback))
		return nil
	}
	fields := []string{
		time.Now().Format("2006-01-02 15:04:05"),
		fb.Question, fb.Answer, fb.Feedback, fb.Reason,
	}
	if err := a.events.RecordEvent(ctx, "feedback", fields); err != nil {
		a.logger.Error("Failed to record feedback event", zap.Error(err))
		return apperrors.WrapError(apperrors.ErrDatabaseOperation, err.Error())
	}
	return nil
}

// recordUnanswered fires the unanswered event off the request path. Sink
// failures are logged and swallowed.
func (a *Agent) recordUnanswered(question string) {
	if a.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		fields := []string{
			time.Now().Format("2006-01-02 15:04:05"),
			question, "未回答", "1",
		}
		if err := a.events.RecordEvent(ctx, "unanswered", fields); err != nil {
			a.logger.Warn("Failed to record unanswered event", zap.Error(err))
		}
		if err := a.events.UpsertUnanswered(ctx, question); err != nil {
			a.logger.Warn("Failed to upsert unanswered suggestion", zap.Error(err))
		}
	}()
}

func reply(response, original, expanded string) types.ChatReply {
	return types.ChatReply{
		Response:         response,
		OriginalQuestion: original,
		ExpandedQuestion: expanded,
	}
}
