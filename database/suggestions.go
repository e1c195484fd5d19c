package database

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// similarityThreshold filters near-duplicate suggestion questions: a new
// question at least this similar to an existing one increments that row's
// count instead of inserting a new row.
const similarityThreshold = 0.7

// Suggestion is one unanswered-question row.
type Suggestion struct {
	Question  string
	Count     int
	Status    string
	UpdatedAt time.Time
}

// UpsertUnanswered records an unanswered question for FAQ curation,
// deduplicating against near-identical existing questions.
func (s *PostgresStore) UpsertUnanswered(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT question FROM faq_suggestions`)
	if err != nil {
		return fmt.Errorf("list suggestion questions: %w", err)
	}
	defer rows.Close()

	match := ""
	for rows.Next() {
		var existing string
		if err := rows.Scan(&existing); err != nil {
			return fmt.Errorf("scan suggestion question: %w", err)
		}
		if similarityRatio(question, existing) >= similarityThreshold {
			match = existing
			break
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate suggestion questions: %w", err)
	}

	if match != "" {
		_, err = s.DB.ExecContext(ctx,
			`UPDATE faq_suggestions SET count = count + 1, updated_at = NOW() WHERE question = $1`,
			match)
	} else {
		_, err = s.DB.ExecContext(ctx,
			`INSERT INTO faq_suggestions (question) VALUES ($1)
             ON CONFLICT (question) DO UPDATE SET count = faq_suggestions.count + 1, updated_at = NOW()`,
			question)
	}
	if err != nil {
		return fmt.Errorf("upsert suggestion: %w", err)
	}
	return nil
}

// ListUnanswered returns suggestions still waiting for an answer, most
// frequent first.
func (s *PostgresStore) ListUnanswered(ctx context.Context) ([]Suggestion, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT question, count, status, updated_at FROM faq_suggestions
         WHERE status = '未回答' ORDER BY count DESC, updated_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list unanswered suggestions: %w", err)
	}
	defer rows.Close()

	var out []Suggestion
	for rows.Next() {
		var sg Suggestion
		if err := rows.Scan(&sg.Question, &sg.Count, &sg.Status, &sg.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		out = append(out, sg)
	}
	return out, rows.Err()
}

// UpdateSuggestionStatus marks a suggestion, e.g. 回答済み once the FAQ has
// been extended.
func (s *PostgresStore) UpdateSuggestionStatus(ctx context.Context, question, status string) error {
	result, err := s.DB.ExecContext(ctx,
		`UPDATE faq_suggestions SET status = $2, updated_at = NOW() WHERE question = $1`,
		question, status)
	if err != nil {
		return fmt.Errorf("update suggestion status: %w", err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("no suggestion found for question")
	}
	return nil
}

// similarityRatio is a Ratcliff-Obershelp similarity over runes, in [0, 1]:
// twice the number of matching characters divided by the total length.
func similarityRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	matches := matchingRunes(ra, rb)
	return 2 * float64(matches) / float64(total)
}

// matchingRunes counts matching characters: the longest common substring
// plus, recursively, the matches to its left and right.
func matchingRunes(a, b []rune) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	bestLen, bestA, bestB := 0, 0, 0
	// lengths[j] is the length of the common suffix of a[:i+1] and b[:j+1]
	lengths := make([]int, len(b)+1)
	for i := 0; i < len(a); i++ {
		for j := len(b) - 1; j >= 0; j-- {
			if a[i] == b[j] {
				lengths[j+1] = lengths[j] + 1
				if lengths[j+1] > bestLen {
					bestLen = lengths[j+1]
					bestA = i - bestLen + 1
					bestB = j - bestLen + 1
				}
			} else {
				lengths[j+1] = 0
			}
		}
	}
	if bestLen == 0 {
		return 0
	}

	return bestLen +
		matchingRunes(a[:bestA], b[:bestB]) +
		matchingRunes(a[bestA+bestLen:], b[bestB+bestLen:])
}
