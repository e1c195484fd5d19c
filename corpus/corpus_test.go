package corpus

import (
	"os"
	"path/filepath"
	"testing"
)

func writeDataDir(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"faq.json": `[
			{"question": "最小ロットは？", "answer": "3,000袋からです。"},
			{"question": "納期は？", "answer": "4〜6週間です。"}
		]`,
		"knowledge.json": `{
			"品質管理": ["全数検査を実施しています。"],
			"認証": ["FSSC22000認証を取得しています。", "有機JASにも対応しています。"]
		}`,
		"metadata.json": `{"title": "製品仕様一覧", "type": "仕様書", "priority": "高"}`,
	})

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(c.Entries) != 5 {
		t.Fatalf("len(Entries) = %d, want 5", len(c.Entries))
	}

	// FAQ entries first, ids aligned to index
	for i, entry := range c.Entries {
		if entry.ID != i {
			t.Errorf("Entries[%d].ID = %d", i, entry.ID)
		}
	}
	if c.Entries[0].Source != SourceFAQ || c.Entries[0].Answer != "3,000袋からです。" {
		t.Errorf("Entries[0] = %+v", c.Entries[0])
	}
	if c.Entries[2].Source != SourceKnowledge {
		t.Errorf("Entries[2].Source = %v, want knowledge", c.Entries[2].Source)
	}
	if c.Entries[2].Text != "品質管理：全数検査を実施しています。" {
		t.Errorf("Entries[2].Text = %q", c.Entries[2].Text)
	}
	if c.Entries[3].Text != "認証：FSSC22000認証を取得しています。" {
		t.Errorf("knowledge category order not preserved: %q", c.Entries[3].Text)
	}

	if c.MetadataNote != "製品仕様一覧（種類：仕様書、優先度：高）" {
		t.Errorf("MetadataNote = %q", c.MetadataNote)
	}
}

func TestLoadWithoutMetadata(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"faq.json":       `[{"question": "Q", "answer": "A"}]`,
		"knowledge.json": `{}`,
	})

	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if c.MetadataNote != "" {
		t.Errorf("MetadataNote = %q, want empty", c.MetadataNote)
	}
}

func TestLoadEmptyCorpusFails(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"faq.json":       `[]`,
		"knowledge.json": `{}`,
	})
	if _, err := Load(dir); err == nil {
		t.Error("Load() on an empty corpus should fail")
	}
}

func TestLoadMissingFAQFails(t *testing.T) {
	dir := writeDataDir(t, map[string]string{
		"knowledge.json": `{"品質管理": ["テキスト"]}`,
	})
	if _, err := Load(dir); err == nil {
		t.Error("Load() without faq.json should fail")
	}
}

func TestLookup(t *testing.T) {
	c := &Corpus{Entries: []Entry{
		{ID: 0, Source: SourceFAQ, Text: "Q", Answer: "A"},
		{ID: 1, Source: SourceKnowledge, Text: "K"},
	}}

	tests := []struct {
		name string
		id   int
		ok   bool
	}{
		{"first", 0, true},
		{"last", 1, true},
		{"negative", -1, false},
		{"past_end", 2, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry, ok := c.Lookup(tt.id)
			if ok != tt.ok {
				t.Fatalf("Lookup(%d) ok = %v, want %v", tt.id, ok, tt.ok)
			}
			if ok && entry.ID != tt.id {
				t.Errorf("Lookup(%d).ID = %d", tt.id, entry.ID)
			}
		})
	}
}
