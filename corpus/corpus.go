// Package corpus loads the FAQ, knowledge and metadata files that make up
// the semantic-search corpus. Entries are built once at startup, with ids
// aligned to their index, and are read-only afterwards.
package corpus

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Source tags where a corpus entry came from.
type Source string

const (
	SourceFAQ       Source = "faq"
	SourceKnowledge Source = "knowledge"
)

// Entry is one searchable corpus item. Answer is set only for FAQ entries.
type Entry struct {
	ID     int
	Source Source
	Text   string
	Answer string
}

// Corpus is the combined, ordered search corpus.
type Corpus struct {
	Entries      []Entry
	MetadataNote string
}

type faqItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

type metadataFile struct {
	Title    string `json:"title"`
	Type     string `json:"type"`
	Priority string `json:"priority"`
}

// Load reads faq.json, knowledge.json and the optional metadata.json from
// dataDir. FAQ entries come first, then knowledge entries, so entry ids
// stay aligned with the vector index positions.
func Load(dataDir string) (*Corpus, error) {
	faqEntries, err := loadFAQ(filepath.Join(dataDir, "faq.json"))
	if err != nil {
		return nil, err
	}
	knowledge, err := loadKnowledge(filepath.Join(dataDir, "knowledge.json"))
	if err != nil {
		return nil, err
	}

	c := &Corpus{}
	for _, item := range faqEntries {
		c.Entries = append(c.Entries, Entry{
			ID:     len(c.Entries),
			Source: SourceFAQ,
			Text:   item.Question,
			Answer: item.Answer,
		})
	}
	for _, text := range knowledge {
		c.Entries = append(c.Entries, Entry{
			ID:     len(c.Entries),
			Source: SourceKnowledge,
			Text:   text,
		})
	}

	// metadata.json is optional
	note, err := loadMetadataNote(filepath.Join(dataDir, "metadata.json"))
	if err != nil {
		return nil, err
	}
	c.MetadataNote = note

	if len(c.Entries) == 0 {
		return nil, fmt.Errorf("corpus is empty: no FAQ or knowledge entries in %s", dataDir)
	}
	return c, nil
}

// Lookup returns the entry for a vector-index id. Out-of-range ids come
// back as ok=false so stale index hits can be skipped silently.
func (c *Corpus) Lookup(id int) (Entry, bool) {
	if id < 0 || id >= len(c.Entries) {
		return Entry{}, false
	}
	return c.Entries[id], true
}

func loadFAQ(path string) ([]faqItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faq file: %w", err)
	}
	var items []faqItem
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("decode faq file: %w", err)
	}
	return items, nil
}

// loadKnowledge flattens {category: [text...]} into カテゴリ：テキスト lines,
// preserving the file's category order.
func loadKnowledge(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}

	dec := json.NewDecoder(strings.NewReader(string(data)))
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("decode knowledge file: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("decode knowledge file: expected object")
	}

	var contents []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("decode knowledge file: %w", err)
		}
		category := keyTok.(string)

		var texts []string
		if err := dec.Decode(&texts); err != nil {
			return nil, fmt.Errorf("decode knowledge category %s: %w", category, err)
		}
		for _, text := range texts {
			contents = append(contents, fmt.Sprintf("%s：%s", category, text))
		}
	}
	return contents, nil
}

func loadMetadataNote(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read metadata file: %w", err)
	}
	var md metadataFile
	if err := json.Unmarshal(data, &md); err != nil {
		return "", fmt.Errorf("decode metadata file: %w", err)
	}
	if md.Title == "" && md.Type == "" && md.Priority == "" {
		return "", nil
	}
	return fmt.Sprintf("%s（種類：%s、優先度：%s）", md.Title, md.Type, md.Priority), nil
}
