// Package rag provides semantic retrieval over the startup corpus, the
// history-aware query rewriter, and the context fusion step that merges
// semantic and structured results into one bounded prompt payload.
package rag

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"faq-agent/config"
	"faq-agent/corpus"
	"faq-agent/database"
	"faq-agent/llmclient"

	lru "github.com/hashicorp/golang-lru"
	"github.com/philippgille/chromem-go"
	"go.uber.org/zap"
)

const collectionName = "search-corpus"

// RAG owns the vector index over the corpus and the embedding client.
type RAG struct {
	cfg        *config.Config
	corpus     *corpus.Corpus
	db         *chromem.DB
	collection *chromem.Collection
	store      *database.PostgresStore
	llm        *llmclient.Client
	embedCache *lru.Cache
	logger     *zap.Logger
}

// New builds the RAG service. store may be nil; persisted embeddings are
// then unavailable and the corpus is re-embedded on every boot.
func New(cfg *config.Config, c *corpus.Corpus, store *database.PostgresStore, llm *llmclient.Client, logger *zap.Logger) (*RAG, error) {
	if c == nil || len(c.Entries) == 0 {
		return nil, fmt.Errorf("corpus is required for retrieval")
	}

	cacheSize := cfg.EmbeddingCacheSize
	if cacheSize <= 0 {
		cacheSize = 512
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding cache: %w", err)
	}

	r := &RAG{
		cfg:        cfg,
		corpus:     c,
		db:         chromem.NewDB(),
		store:      store,
		llm:        llm,
		embedCache: cache,
		logger:     logger,
	}

	collection, err := r.db.GetOrCreateCollection(collectionName, nil, r.embeddingFunc())
	if err != nil {
		return nil, fmt.Errorf("create corpus collection: %w", err)
	}
	r.collection = collection

	return r, nil
}

func (r *RAG) embeddingFunc() chromem.EmbeddingFunc {
	return func(ctx context.Context, doc string) ([]float32, error) {
		return r.embed(ctx, doc)
	}
}

// embed returns the embedding for text, via the LRU cache.
func (r *RAG) embed(ctx context.Context, text string) ([]float32, error) {
	key := hashContent(text)
	if cached, ok := r.embedCache.Get(key); ok {
		return cached.([]float32), nil
	}
	vector, err := r.llm.Embed(ctx, r.cfg.EmbeddingLLMHost, text)
	if err != nil {
		return nil, err
	}
	r.embedCache.Add(key, vector)
	return vector, nil
}

// BuildIndex embeds every corpus entry into the vector collection. Vectors
// persisted from an earlier boot are reused when the entry text is
// unchanged, unless a rebuild is forced.
func (r *RAG) BuildIndex(ctx context.Context) error {
	persisted := make(map[string][]float32)
	if r.store != nil && !r.cfg.RebuildIndex {
		loaded, err := r.store.LoadCorpusVectors(ctx)
		if err != nil {
			r.logger.Warn("Could not load persisted corpus vectors, re-embedding", zap.Error(err))
		} else {
			persisted = loaded
		}
	}

	embedded := 0
	for _, entry := range r.corpus.Entries {
		hash := hashContent(entry.Text)

		vector, ok := persisted[hash]
		if !ok {
			var err error
			vector, err = r.embed(ctx, entry.Text)
			if err != nil {
				return fmt.Errorf("embed corpus entry %d: %w", entry.ID, err)
			}
			embedded++
			if r.store != nil {
				if err := r.store.SaveCorpusVector(ctx, entry.ID, hash, vector); err != nil {
					r.logger.Warn("Could not persist corpus vector",
						zap.Int("corpus_id", entry.ID),
						zap.Error(err))
				}
			}
		}

		doc := chromem.Document{
			ID:        strconv.Itoa(entry.ID),
			Metadata:  map[string]string{"source": string(entry.Source)},
			Content:   entry.Text,
			Embedding: vector,
		}
		if err := r.collection.AddDocument(ctx, doc); err != nil {
			return fmt.Errorf("index corpus entry %d: %w", entry.ID, err)
		}
	}

	r.logger.Info("Corpus index ready",
		zap.Int("entries", len(r.corpus.Entries)),
		zap.Int("embedded", embedded),
		zap.Int("reused", len(r.corpus.Entries)-embedded))
	return nil
}

// MetadataNote exposes the corpus metadata note for fusion.
func (r *RAG) MetadataNote() string {
	return r.corpus.MetadataNote
}

func hashContent(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}
