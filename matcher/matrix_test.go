package matcher

import (
	"reflect"
	"testing"
)

const testMatrixJSON = `{
  "VFR型": {
    "白光沢フィルム": ["黒", "赤", "ゴールド"],
    "黒マットフィルム": ["白", "ゴールド"]
  },
  "X型": {
    "白光沢フィルム": ["黒", "青"],
    "クラフト包材": ["黒", "茶"]
  },
  "X増量タイプ": {
    "クラフト包材": ["黒"]
  }
}`

func testMatrix(t *testing.T) *Matrix {
	t.Helper()
	m, err := ParseMatrix([]byte(testMatrixJSON))
	if err != nil {
		t.Fatalf("ParseMatrix() error = %v", err)
	}
	return m
}

func TestParseMatrixPreservesOrder(t *testing.T) {
	m := testMatrix(t)

	wantProducts := []string{"VFR型", "X型", "X増量タイプ"}
	if !reflect.DeepEqual(m.Products(), wantProducts) {
		t.Errorf("Products() = %v, want %v", m.Products(), wantProducts)
	}

	wantFilms := []string{"白光沢フィルム", "黒マットフィルム"}
	if !reflect.DeepEqual(m.films["VFR型"], wantFilms) {
		t.Errorf("films for VFR型 = %v, want %v", m.films["VFR型"], wantFilms)
	}
}

func TestParseMatrixRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty_object", `{}`},
		{"film_without_colors", `{"VFR型": {"白光沢フィルム": []}}`},
		{"top_level_array", `[]`},
		{"truncated", `{"VFR型": {"白光沢フィルム": ["黒"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseMatrix([]byte(tt.data)); err == nil {
				t.Errorf("ParseMatrix(%q) expected an error", tt.data)
			}
		})
	}
}

func TestFindProductLongestMatch(t *testing.T) {
	m := testMatrix(t)

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"exact", "X型", "X型", true},
		{"embedded", "X型の仕様について", "X型", true},
		{"longer_key_wins", "X増量タイプとX型の比較", "X増量タイプ", true},
		{"unknown", "ドリップバッグ", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := m.findProduct(tt.input)
			if got != tt.want || ok != tt.ok {
				t.Errorf("findProduct(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
			}
		})
	}
}
