package matcher

import (
	"fmt"
	"strings"
)

// Kind tags the lookup variant that produced a Result.
type Kind string

const (
	KindProductToFilms      Kind = "product_to_films"
	KindProductFilmToColors Kind = "product_film_to_colors"
	KindFilmToProducts      Kind = "film_to_products"
	KindColorToFilms        Kind = "color_to_films"
	KindColorToProducts     Kind = "color_to_products"
	KindColorToFilmColors   Kind = "color_to_film_colors"
	KindNoMatch             Kind = "no_match"
	KindError               Kind = "error"
)

// FilmColors pairs a film with its full color list.
type FilmColors struct {
	Film   string
	Colors []string
}

// Result is the outcome of one compatibility lookup. Matched=false is a
// normal negative outcome carrying a human-readable fallback message, not
// an error; KindError marks an internal fault and is treated downstream
// exactly like KindNoMatch.
type Result struct {
	Matched    bool
	Kind       Kind
	Product    string
	Film       string
	Color      string
	Products   []string
	Films      []string
	Colors     []string
	FilmColors []FilmColors
	Message    string
}

// matchInfoMarker identifies matcher-derived reference snippets so fusion
// can pin them ahead of semantic knowledge snippets.
const matchInfoMarker = "製品フィルム・カラー情報"

// Snippet renders the reference-context line for a matched result. Empty
// for negative and error results.
func (r Result) Snippet() string {
	if !r.Matched || r.Message == "" {
		return ""
	}
	return fmt.Sprintf("【%s】%s", matchInfoMarker, r.Message)
}

// IsMatchInfoSnippet reports whether a reference snippet came from the
// compatibility matcher.
func IsMatchInfoSnippet(s string) bool {
	return strings.Contains(s, matchInfoMarker)
}

func noMatch(message string) Result {
	return Result{Matched: false, Kind: KindNoMatch, Message: message}
}

func errorResult(message string) Result {
	return Result{Matched: false, Kind: KindError, Message: message}
}
