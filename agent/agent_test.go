package agent

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"faq-agent/config"
	apperrors "faq-agent/errors"
	"faq-agent/matcher"
	"faq-agent/rag"
	"faq-agent/session"
	"faq-agent/web/types"

	"go.uber.org/zap"
)

type fakeRetriever struct {
	hits        rag.Results
	retrieveErr error
	note        string
	rewritten   string

	retrieveCalls int
	lastQuery     string
	lastK         int
}

func (f *fakeRetriever) Retrieve(ctx context.Context, query string, k int) (rag.Results, error) {
	f.retrieveCalls++
	f.lastQuery = query
	f.lastK = k
	if f.retrieveErr != nil {
		return rag.Results{}, f.retrieveErr
	}
	return f.hits, nil
}

func (f *fakeRetriever) Rewrite(ctx context.Context, question string, history []types.Message) string {
	if f.rewritten != "" {
		return f.rewritten
	}
	return question
}

func (f *fakeRetriever) MetadataNote() string { return f.note }

type fakeGenerator struct {
	answer string
	err    error

	calls        int
	lastMessages []types.Message
}

func (f *fakeGenerator) Chat(ctx context.Context, host string, messages []types.Message, temperature *float64) (string, error) {
	f.calls++
	f.lastMessages = messages
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fakeRecorder struct {
	events     chan string
	unanswered chan string
	recordErr  error
	lastFields []string
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{
		events:     make(chan string, 4),
		unanswered: make(chan string, 4),
	}
}

func (f *fakeRecorder) RecordEvent(ctx context.Context, kind string, fields []string) error {
	f.lastFields = fields
	f.events <- kind
	return f.recordErr
}

func (f *fakeRecorder) UpsertUnanswered(ctx context.Context, question string) error {
	f.unanswered <- question
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		MainLLMHost:   "http://llm.local",
		SearchResults: 7,
		FAQSnippetMax: 3,
		ReferenceMax:  2,
	}
}

func testAgentMatcher(t *testing.T) *matcher.Matcher {
	t.Helper()
	m, err := matcher.ParseMatrix([]byte(`{
		"VFR型": {"白光沢フィルム": ["黒", "ゴールド"], "黒マットフィルム": ["白"]}
	}`))
	if err != nil {
		t.Fatal(err)
	}
	return matcher.NewMatcher(m, nil)
}

func newTestAgent(t *testing.T, retriever *fakeRetriever, gen *fakeGenerator, events EventRecorder) (*Agent, *session.Store) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	store := session.NewStore(30*time.Minute, 10, nil)
	a := NewAgent(testConfig(), gen, retriever, testAgentMatcher(t), store, events, logger)
	return a, store
}

func TestAnswerRejectsEmptyQuestion(t *testing.T) {
	a, _ := newTestAgent(t, &fakeRetriever{}, &fakeGenerator{}, nil)

	for _, q := range []string{"", "   ", "\n\t"} {
		if _, err := a.Answer(context.Background(), q, "s1"); !apperrors.IsInvalidInput(err) {
			t.Errorf("Answer(%q) error = %v, want invalid input", q, err)
		}
	}
}

func TestAnswerGreetingShortCircuit(t *testing.T) {
	retriever := &fakeRetriever{}
	gen := &fakeGenerator{answer: "呼ばれてはいけない"}
	a, store := newTestAgent(t, retriever, gen, nil)

	greetings := []string{
		"こんにちは",
		"こんばんは",
		"おはようございます",
		"はじめまして、お世話になります",
		"よろしくお願いします",
	}
	for _, q := range greetings {
		t.Run(q, func(t *testing.T) {
			got, err := a.Answer(context.Background(), q, "greet")
			if err != nil {
				t.Fatalf("Answer() error = %v", err)
			}
			if got.Response != greetingReply {
				t.Errorf("Response = %q, want canned greeting", got.Response)
			}
		})
	}

	if retriever.retrieveCalls != 0 || gen.calls != 0 {
		t.Errorf("greeting path made %d retrievals and %d generations, want none",
			retriever.retrieveCalls, gen.calls)
	}

	// only the assistant reply is logged for greetings
	history := store.GetHistory("greet")
	for _, msg := range history {
		if msg.Role != "assistant" {
			t.Errorf("greeting history contains role %q", msg.Role)
		}
	}
}

func TestAnswerOutOfDomainShortCircuit(t *testing.T) {
	retriever := &fakeRetriever{} // no hits, no metadata
	gen := &fakeGenerator{answer: "呼ばれてはいけない"}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "今日の天気を教えて", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got.Response != outOfDomainReply {
		t.Errorf("Response = %q, want the out-of-domain reply", got.Response)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times on the out-of-domain path", gen.calls)
	}
	if retriever.retrieveCalls != 1 {
		t.Errorf("retriever called %d times, want 1", retriever.retrieveCalls)
	}
}

// A question naming a known product and a known film with no compatibility
// row, with empty retrieval, must end in the out-of-domain disclaimer: the
// negative matcher outcome contributes no snippet and the generator is
// never called.
func TestAnswerIncompatiblePairGetsDisclaimer(t *testing.T) {
	retriever := &fakeRetriever{} // semantic search finds nothing
	gen := &fakeGenerator{answer: "呼ばれてはいけない"}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "VFR型で赤フィルムは使えますか", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got.Response != outOfDomainReply {
		t.Errorf("Response = %q, want the out-of-domain reply", got.Response)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestAnswerUsesRewrittenQueryForRetrieval(t *testing.T) {
	retriever := &fakeRetriever{
		hits:      rag.Results{FAQ: []string{"Q: 納期は？\nA: 4〜6週間です。"}},
		rewritten: "コーヒー製品の納期はどのくらいか",
	}
	gen := &fakeGenerator{answer: "納期は4〜6週間です。"}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "それはどのくらいかかりますか", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if retriever.lastQuery != retriever.rewritten {
		t.Errorf("retrieval query = %q, want the rewritten one", retriever.lastQuery)
	}
	if retriever.lastK != 7 {
		t.Errorf("retrieval k = %d, want 7", retriever.lastK)
	}
	if got.ExpandedQuestion != retriever.rewritten {
		t.Errorf("ExpandedQuestion = %q", got.ExpandedQuestion)
	}
	if got.OriginalQuestion != "それはどのくらいかかりますか" {
		t.Errorf("OriginalQuestion = %q", got.OriginalQuestion)
	}
}

func TestAnswerColorAliasReachesMatcher(t *testing.T) {
	retriever := &fakeRetriever{} // semantic search finds nothing
	gen := &fakeGenerator{answer: "ゴールドはVFR型で印刷できます。"}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "金の印刷ができる製品はありますか", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got.Response != gen.answer {
		t.Errorf("Response = %q, want the generated answer", got.Response)
	}
	if gen.calls != 1 {
		t.Fatalf("generator calls = %d, want 1; the matcher hit should prevent the disclaimer", gen.calls)
	}

	userPrompt := gen.lastMessages[len(gen.lastMessages)-1].Content
	if !strings.Contains(userPrompt, "【製品フィルム・カラー情報】") {
		t.Errorf("prompt is missing the matcher snippet:\n%s", userPrompt)
	}
	if !strings.Contains(userPrompt, "ゴールド") {
		t.Errorf("prompt does not mention the canonical color:\n%s", userPrompt)
	}
}

func TestAnswerRetrievalFaultDegrades(t *testing.T) {
	retriever := &fakeRetriever{retrieveErr: errors.New("embedding host down")}
	gen := &fakeGenerator{answer: "呼ばれてはいけない"}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "最小ロットは？", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v, faults should degrade not propagate", err)
	}
	if got.Response != faultReply {
		t.Errorf("Response = %q, want the fault reply", got.Response)
	}
	if gen.calls != 0 {
		t.Errorf("generator called after a retrieval fault")
	}
}

func TestAnswerGenerationFaultDegrades(t *testing.T) {
	retriever := &fakeRetriever{hits: rag.Results{FAQ: []string{"Q: 納期は？\nA: 4〜6週間です。"}}}
	gen := &fakeGenerator{err: errors.New("llm timeout")}
	a, _ := newTestAgent(t, retriever, gen, nil)

	got, err := a.Answer(context.Background(), "納期は？", "s1")
	if err != nil {
		t.Fatalf("Answer() error = %v", err)
	}
	if got.Response != faultReply {
		t.Errorf("Response = %q, want the fault reply", got.Response)
	}
}

func TestAnswerRecordsHistory(t *testing.T) {
	retriever := &fakeRetriever{hits: rag.Results{FAQ: []string{"Q: 納期は？\nA: 4〜6週間です。"}}}
	gen := &fakeGenerator{answer: "4〜6週間です。"}
	a, store := newTestAgent(t, retriever, gen, nil)

	if _, err := a.Answer(context.Background(), "納期は？", "s1"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	history := store.GetHistory("s1")
	if len(history) != 2 {
		t.Fatalf("history = %d entries, want user + assistant", len(history))
	}
	if history[0].Role != "user" || history[0].Content != "納期は？" {
		t.Errorf("history[0] = %+v", history[0])
	}
	if history[1].Role != "assistant" || history[1].Content != "4〜6週間です。" {
		t.Errorf("history[1] = %+v", history[1])
	}
}

func TestAnswerApologyRecordsUnanswered(t *testing.T) {
	retriever := &fakeRetriever{hits: rag.Results{FAQ: []string{"Q: 近い質問\nA: near miss"}}}
	gen := &fakeGenerator{answer: "申し訳ございませんが、その情報は持ち合わせておりません。"}
	events := newFakeRecorder()
	a, _ := newTestAgent(t, retriever, gen, events)

	question := "特殊サイズの対応はできますか"
	if _, err := a.Answer(context.Background(), question, "s1"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	select {
	case kind := <-events.events:
		if kind != "unanswered" {
			t.Errorf("event kind = %q, want unanswered", kind)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no unanswered event recorded")
	}
	select {
	case got := <-events.unanswered:
		if got != question {
			t.Errorf("suggestion question = %q, want %q", got, question)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no suggestion upserted")
	}
}

func TestAnswerGroundedAnswerRecordsNothing(t *testing.T) {
	retriever := &fakeRetriever{hits: rag.Results{FAQ: []string{"Q: 納期は？\nA: 4〜6週間です。"}}}
	gen := &fakeGenerator{answer: "納期は4〜6週間です。"}
	events := newFakeRecorder()
	a, _ := newTestAgent(t, retriever, gen, events)

	if _, err := a.Answer(context.Background(), "納期は？", "s1"); err != nil {
		t.Fatalf("Answer() error = %v", err)
	}

	select {
	case kind := <-events.events:
		t.Errorf("unexpected %q event for a grounded answer", kind)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestRecordFeedback(t *testing.T) {
	events := newFakeRecorder()
	a, _ := newTestAgent(t, &fakeRetriever{}, &fakeGenerator{}, events)

	err := a.RecordFeedback(context.Background(), types.FeedbackRequest{
		Question: "納期は？",
		Answer:   "4〜6週間です。",
		Feedback: "bad",
		Reason:   "情報が古い",
	})
	if err != nil {
		t.Fatalf("RecordFeedback() error = %v", err)
	}

	select {
	case kind := <-events.events:
		if kind != "feedback" {
			t.Errorf("event kind = %q, want feedback", kind)
		}
	default:
		t.Fatal("no feedback event recorded")
	}
	if len(events.lastFields) != 5 {
		t.Fatalf("feedback fields = %d, want 5", len(events.lastFields))
	}
	if events.lastFields[3] != "bad" || events.lastFields[4] != "情報が古い" {
		t.Errorf("feedback fields = %v", events.lastFields)
	}
}

func TestRecordFeedbackValidation(t *testing.T) {
	a, _ := newTestAgent(t, &fakeRetriever{}, &fakeGenerator{}, newFakeRecorder())

	tests := []struct {
		name string
		fb   types.FeedbackRequest
	}{
		{"missing_question", types.FeedbackRequest{Answer: "A", Feedback: "good"}},
		{"missing_answer", types.FeedbackRequest{Question: "Q", Feedback: "good"}},
		{"missing_feedback", types.FeedbackRequest{Question: "Q", Answer: "A"}},
		{"whitespace_only", types.FeedbackRequest{Question: " ", Answer: "A", Feedback: "good"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := a.RecordFeedback(context.Background(), tt.fb); !apperrors.IsInvalidInput(err) {
				t.Errorf("RecordFeedback() error = %v, want invalid input", err)
			}
		})
	}
}

func TestRecordFeedbackWithoutSink(t *testing.T) {
	a, _ := newTestAgent(t, &fakeRetriever{}, &fakeGenerator{}, nil)

	err := a.RecordFeedback(context.Background(), types.FeedbackRequest{
		Question: "Q", Answer: "A", Feedback: "good",
	})
	if err != nil {
		t.Errorf("RecordFeedback() without a sink should succeed, got %v", err)
	}
}

func TestResponseModeSuffix(t *testing.T) {
	short := strings.Repeat("あ", 10)
	medium := strings.Repeat("あ", 50)
	long := strings.Repeat("あ", 120)

	if got := responseModeSuffix(short); !strings.Contains(got, "簡潔") {
		t.Errorf("short question suffix = %q", got)
	}
	if got := responseModeSuffix(medium); got != "" {
		t.Errorf("medium question suffix = %q, want empty", got)
	}
	if got := responseModeSuffix(long); !strings.Contains(got, "詳細") {
		t.Errorf("long question suffix = %q", got)
	}
}

func TestIsGreeting(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"こんにちは", true},
		{"おはよう", true},
		{"宜しくお願いします", true},
		{"納期はどのくらいですか", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isGreeting(tt.text); got != tt.want {
			t.Errorf("isGreeting(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
