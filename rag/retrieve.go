package rag

import (
	"context"
	"fmt"
	"strconv"

	"faq-agent/corpus"
	apperrors "faq-agent/errors"

	"go.uber.org/zap"
)

// Results holds retrieval hits partitioned by corpus source, in neighbor
// rank order within each partition.
type Results struct {
	FAQ       []string
	Knowledge []string
}

// Retrieve embeds the query and partitions the k nearest corpus entries by
// source tag. A zero-length neighbor list is a defined empty result; only
// an embedding failure is a fault.
func (r *RAG) Retrieve(ctx context.Context, query string, k int) (Results, error) {
	results := Results{}
	if k <= 0 {
		return results, nil
	}

	vector, err := r.embed(ctx, query)
	if err != nil {
		return results, apperrors.WrapError(apperrors.ErrEmbedding, err.Error())
	}

	total := r.collection.Count()
	if total == 0 {
		return results, nil
	}
	if k > total {
		k = total
	}

	neighbors, err := r.collection.QueryEmbedding(ctx, vector, k, nil, nil)
	if err != nil {
		return results, fmt.Errorf("query corpus index: %w", err)
	}

	for _, neighbor := range neighbors {
		id, err := strconv.Atoi(neighbor.ID)
		if err != nil {
			r.logger.Warn("Non-numeric corpus id in index, skipping", zap.String("id", neighbor.ID))
			continue
		}
		entry, ok := r.corpus.Lookup(id)
		if !ok {
			// Stale index entry; skip silently
			continue
		}

		switch entry.Source {
		case corpus.SourceFAQ:
			results.FAQ = append(results.FAQ, fmt.Sprintf("Q: %s\nA: %s", entry.Text, entry.Answer))
		case corpus.SourceKnowledge:
			results.Knowledge = append(results.Knowledge, fmt.Sprintf("【参考知識】%s", entry.Text))
		}
	}

	return results, nil
}
