package matcher

import "strings"

// Controlled vocabularies. Order is significant: Extract reports matches in
// vocabulary order, and longer names precede the names they contain
// (X増量タイプ would otherwise be shadowed by X型 in longest-match checks).
var (
	productVocabulary = []string{
		"VFR増量タイプ", "VFR型",
		"X増量タイプ", "X型",
		"ディップスタイル", "水出しコーヒー", "個包装コーヒーバッグ",
	}

	filmVocabulary = []string{
		"白光沢フィルム", "白マットフィルム", "黒光沢フィルム", "黒マットフィルム",
		"赤フィルム", "青光沢フィルム", "青マットフィルム", "緑フィルム",
		"クラフト包材", "サンドベージュフィルム",
		"紙リサイクルマーク付き包材(アルミあり)", "ハイバリア特殊紙(アルミ無し)",
	}

	colorVocabulary = []string{
		"黒", "白", "赤", "青", "茶", "ゴールド", "シルバー",
	}
)

// Entities holds every canonical vocabulary term found in one input text.
// All three slices are always non-nil; absence is an empty slice.
type Entities struct {
	Products []string
	Films    []string
	Colors   []string
}

// HasAny reports whether any category matched.
func (e Entities) HasAny() bool {
	return len(e.Products) > 0 || len(e.Films) > 0 || len(e.Colors) > 0
}

// Extract normalizes the text and scans it against the three controlled
// vocabularies, returning every term that occurs as a substring. Color
// aliases are folded by Normalize before membership testing, so 金 and 金色
// both surface as ゴールド.
func Extract(text string) Entities {
	normalized := Normalize(text)
	return Entities{
		Products: scanVocabulary(normalized, productVocabulary),
		Films:    scanVocabulary(normalized, filmVocabulary),
		Colors:   scanVocabulary(normalized, colorVocabulary),
	}
}

func scanVocabulary(text string, vocabulary []string) []string {
	found := make([]string, 0, 2)
	for _, term := range vocabulary {
		if strings.Contains(text, term) {
			found = append(found, term)
		}
	}
	return found
}
