package format

import (
	"strings"
	"testing"
)

func TestAnswerHTML(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		want   string
	}{
		{"plain_text", "納期は4〜6週間です。", "<p>納期は4〜6週間です。</p>"},
		{"bold", "納期は**4〜6週間**です。", "<p>納期は<strong>4〜6週間</strong>です。</p>"},
		{"empty", "", ""},
		{"whitespace_only", "   \n", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnswerHTML(tt.answer)
			if got != tt.want {
				t.Errorf("AnswerHTML(%q) = %q, want %q", tt.answer, got, tt.want)
			}
		})
	}
}

func TestAnswerHTMLListRendering(t *testing.T) {
	got := AnswerHTML("- 白光沢フィルム\n- 黒光沢フィルム")
	if !strings.Contains(got, "<li>白光沢フィルム</li>") {
		t.Errorf("list not rendered: %q", got)
	}
}

func TestAnswerHTMLNormalizesCurlyQuotes(t *testing.T) {
	got := AnswerHTML("これは“テスト”です")
	if strings.Contains(got, "“") || strings.Contains(got, "”") {
		t.Errorf("curly quotes survived: %q", got)
	}
}

func TestAnswerHTMLStripsScript(t *testing.T) {
	got := AnswerHTML("回答です。<script>alert(1)</script>")
	if strings.Contains(got, "<script>") {
		t.Errorf("script tag survived sanitization: %q", got)
	}
	if !strings.Contains(got, "回答です。") {
		t.Errorf("text content lost: %q", got)
	}
}
