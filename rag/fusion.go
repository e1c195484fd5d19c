package rag

import (
	"fmt"
	"strings"

	"faq-agent/matcher"
)

// NoFAQPlaceholder substitutes the FAQ block when retrieval found no FAQ
// entries but other context still justifies a generated answer.
const NoFAQPlaceholder = "該当するFAQは見つかりませんでした。"

// FusedContext is the bounded prompt payload built per request and
// discarded afterwards.
type FusedContext struct {
	FAQSnippets       []string
	ReferenceSnippets []string
	MetadataNote      string

	empty bool
}

// FuseOptions bounds the fused context.
type FuseOptions struct {
	FAQMax       int // FAQ snippets kept, default 3
	ReferenceMax int // knowledge snippets kept after the matcher snippet, default 2
}

func (o FuseOptions) withDefaults() FuseOptions {
	if o.FAQMax <= 0 {
		o.FAQMax = 3
	}
	if o.ReferenceMax <= 0 {
		o.ReferenceMax = 2
	}
	return o
}

// Fuse merges semantic retrieval output, the compatibility-matcher result
// and the metadata note into one bounded context. The matcher snippet, when
// present, is always the first reference; the metadata note rides outside
// the reference cap. An error-variant matcher result counts as no match.
func Fuse(hits Results, match matcher.Result, metadataNote string, opts FuseOptions) FusedContext {
	opts = opts.withDefaults()

	matchSnippet := ""
	if match.Matched && match.Kind != matcher.KindError {
		matchSnippet = match.Snippet()
	}

	fc := FusedContext{
		empty: len(hits.FAQ) == 0 && len(hits.Knowledge) == 0 && matchSnippet == "" && metadataNote == "",
	}

	faq := hits.FAQ
	if len(faq) > opts.FAQMax {
		faq = faq[:opts.FAQMax]
	}
	fc.FAQSnippets = append(fc.FAQSnippets, faq...)

	if matchSnippet != "" {
		fc.ReferenceSnippets = append(fc.ReferenceSnippets, matchSnippet)
	}
	knowledge := hits.Knowledge
	if len(knowledge) > opts.ReferenceMax {
		knowledge = knowledge[:opts.ReferenceMax]
	}
	fc.ReferenceSnippets = append(fc.ReferenceSnippets, knowledge...)

	if metadataNote != "" {
		fc.MetadataNote = fmt.Sprintf("【参考ファイル情報】%s", metadataNote)
	}

	return fc
}

// Empty reports the no-relevant-context condition: the orchestrator maps
// this to the fixed out-of-domain disclaimer without calling the generator.
func (fc FusedContext) Empty() bool {
	return fc.empty
}

// FAQBlock renders the FAQ section of the prompt.
func (fc FusedContext) FAQBlock() string {
	if len(fc.FAQSnippets) == 0 {
		return NoFAQPlaceholder
	}
	return strings.Join(fc.FAQSnippets, "\n\n")
}

// ReferenceBlock renders the reference section of the prompt, metadata note
// last.
func (fc FusedContext) ReferenceBlock() string {
	lines := append([]string(nil), fc.ReferenceSnippets...)
	if fc.MetadataNote != "" {
		lines = append(lines, fc.MetadataNote)
	}
	return strings.Join(lines, "\n")
}
