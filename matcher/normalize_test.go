package matcher

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"gold_with_iro", "金色のフィルムはありますか", "ゴールドのフィルムはありますか"},
		{"gold_bare", "金の印刷はできますか", "ゴールドの印刷はできますか"},
		{"silver_with_iro", "銀色は対応していますか", "シルバーは対応していますか"},
		{"silver_bare", "銀で印刷したい", "シルバーで印刷したい"},
		{"black_katakana", "ブラックのフィルム", "黒のフィルム"},
		{"white_katakana", "ホワイトで印刷", "白で印刷"},
		{"red_katakana", "レッドの色", "赤の色"},
		{"blue_katakana", "ブルーのパッケージ", "青のパッケージ"},
		{"brown_katakana", "ブラウンは使えますか", "茶は使えますか"},
		{"brown_with_iro", "茶色の包材", "茶の包材"},
		{"film_old_kana", "白光沢フイルム", "白光沢フィルム"},
		{"no_aliases", "納期はどのくらいですか", "納期はどのくらいですか"},
		{"empty", "", ""},
		{"multiple_aliases", "金色と銀色のブラック", "ゴールドとシルバーの黒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.text)
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestNormalizeIsStable(t *testing.T) {
	inputs := []string{
		"金色のフィルム",
		"茶色とブラウン",
		"ゴールドとシルバー",
	}
	for _, text := range inputs {
		once := Normalize(text)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not stable for %q: first %q, second %q", text, once, twice)
		}
	}
}
