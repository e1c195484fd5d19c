package matcher

import "strings"

// substitution is a single alias → canonical rewrite. Order matters: longer
// aliases must come before their prefixes (金色 before 金) so the remainder
// of the longer form is not left behind.
type substitution struct {
	alias     string
	canonical string
}

// substitutions is the fixed normalization table for product, film and
// color name variants. Applied once, in order, non-recursively.
var substitutions = []substitution{
	{"金色", "ゴールド"},
	{"金", "ゴールド"},
	{"銀色", "シルバー"},
	{"銀", "シルバー"},
	{"ブラック", "黒"},
	{"ホワイト", "白"},
	{"レッド", "赤"},
	{"ブルー", "青"},
	{"ブラウン", "茶"},
	{"茶色", "茶"},
	{"ｖｆｒ", "VFR"},
	{"ｘ型", "X型"},
	{"フイルム", "フィルム"},
}

// Normalize canonicalizes free text by literal substring replacement over
// the substitution table. A substitution's output is not re-scanned, so the
// function is total and terminates on any input.
func Normalize(text string) string {
	for _, sub := range substitutions {
		text = strings.ReplaceAll(text, sub.alias, sub.canonical)
	}
	return text
}
