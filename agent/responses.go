package agent

import (
	"context"
	"fmt"
	"strings"

	"faq-agent/prompts"
	"faq-agent/rag"
	"faq-agent/web/types"
)

// greetingPhrases triggers the canned-greeting short circuit. Matching is
// substring membership against the normalized question.
var greetingPhrases = []string{
	"こんにちは", "こんばんは", "おはよう", "はじめまして",
	"宜しくお願いします", "よろしくお願いします",
}

const greetingReply = "こんにちは！ご質問があればお気軽にどうぞ。"

// outOfDomainReply answers questions with no relevant context, without
// spending a generation call.
const outOfDomainReply = "当社はコーヒー製品の委託加工を専門とする会社です。" +
	"恐れ入りますが、ご質問内容が当社業務と直接関連のある内容かどうかをご確認のうえ、" +
	"改めてお尋ねいただけますと幸いです。\n\n" +
	"ご不明な点がございましたら、当社の【お問い合わせフォーム】よりご連絡ください。"

const faultReply = "申し訳ございません。ただいま回答を生成できませんでした。お手数ですが、しばらくしてから再度お試しください。"

// apologyMarkers flag answers the model could not really ground; those
// questions are recorded as FAQ candidates.
var apologyMarkers = []string{"申し訳", "恐れ入りますが", "エラー"}

const generateTemperature = 0.2

func isGreeting(text string) bool {
	for _, phrase := range greetingPhrases {
		if strings.Contains(text, phrase) {
			return true
		}
	}
	return false
}

func containsApologyMarker(answer string) bool {
	for _, marker := range apologyMarkers {
		if strings.Contains(answer, marker) {
			return true
		}
	}
	return false
}

// responseModeSuffix picks a brevity instruction from the question length:
// short questions get short answers, long questions get detailed ones.
func responseModeSuffix(question string) string {
	switch length := len([]rune(question)); {
	case length < 30:
		return "\n\n可能な限り簡潔かつ要点のみで回答してください。"
	case length > 100:
		return "\n\n詳細な説明や具体例を含めて丁寧に回答してください。"
	default:
		return ""
	}
}

// generate builds the final prompt from the fused context and calls the
// generation collaborator.
func (a *Agent) generate(ctx context.Context, question string, fused rag.FusedContext) (string, error) {
	userPrompt := fmt.Sprintf(`以下は当社のFAQおよび参考情報です。これらを参考に、ユーザーの質問に製造元の立場でご回答ください。

【FAQ】
%s

【参考情報】
%s

ユーザーの質問: %s
回答：`, fused.FAQBlock(), fused.ReferenceBlock(), question)

	systemPrompt := prompts.System() + responseModeSuffix(question)

	temperature := generateTemperature
	messages := []types.Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: userPrompt},
	}

	answer, err := a.llm.Chat(ctx, a.cfg.MainLLMHost, messages, &temperature)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer), nil
}
