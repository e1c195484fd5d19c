package matcher

import "strings"

// Color-lookup policy step names accepted in configuration.
const (
	ColorStepProducts   = "products"
	ColorStepFilmColors = "film_colors"
	ColorStepFilms      = "films"
)

// defaultColorOrder is the fallback color-lookup precedence.
var defaultColorOrder = []string{ColorStepProducts, ColorStepFilmColors, ColorStepFilms}

// Matcher resolves extracted entities against the compatibility matrix
// through an ordered strategy cascade.
type Matcher struct {
	matrix     *Matrix
	colorOrder []string
}

// NewMatcher builds a Matcher. colorOrder configures the precedence among
// the color-based fallback lookups; unknown step names are skipped, and an
// empty or all-invalid order falls back to products → film_colors → films.
func NewMatcher(matrix *Matrix, colorOrder []string) *Matcher {
	order := make([]string, 0, len(colorOrder))
	for _, step := range colorOrder {
		switch strings.ToLower(strings.TrimSpace(step)) {
		case ColorStepProducts, ColorStepFilmColors, ColorStepFilms:
			order = append(order, strings.ToLower(strings.TrimSpace(step)))
		}
	}
	if len(order) == 0 {
		order = defaultColorOrder
	}
	return &Matcher{matrix: matrix, colorOrder: order}
}

// Match resolves entities against the matrix. Exactly one strategy runs,
// selected by which entity kinds are present; when its lookup finds no row
// the negative result is returned as-is so callers can distinguish "asked
// about packaging, nothing fits" from "did not ask about packaging". The
// one exception: a (product, film, color) question whose color intersects
// nothing degrades to the plain (product, film) lookup.
func (m *Matcher) Match(entities Entities) Result {
	if m.matrix == nil || len(m.matrix.products) == 0 {
		return errorResult("製品フィルム情報を読み込めませんでした。")
	}

	switch {
	case len(entities.Products) > 0 && len(entities.Films) > 0 && len(entities.Colors) > 0:
		if result, ok := m.matchProductFilmColor(entities); ok {
			return result
		}
		return m.matchProductFilm(entities)
	case len(entities.Products) > 0 && len(entities.Films) > 0:
		return m.matchProductFilm(entities)
	case len(entities.Products) > 0:
		return m.matchProduct(entities)
	case len(entities.Films) > 0:
		return m.matchFilm(entities)
	case len(entities.Colors) > 0:
		return m.matchColor(entities)
	}
	return noMatch("該当する製品・フィルム・色の情報が見つかりませんでした。")
}

// matchProductFilmColor handles questions naming all three entity kinds:
// return the (product, film) color list only when it actually carries one
// of the asked-for colors.
func (m *Matcher) matchProductFilmColor(e Entities) (Result, bool) {
	for _, product := range e.Products {
		for _, film := range e.Films {
			result := m.matrix.ColorsForProductFilm(product, film)
			if !result.Matched {
				continue
			}
			for _, color := range e.Colors {
				if containsColor(result.Colors, color) {
					result.Color = color
					return result, true
				}
			}
		}
	}
	return Result{}, false
}

// matchProductFilm returns the first matched (product, film) lookup; when
// every pair misses, the last negative result carries the fallback message.
func (m *Matcher) matchProductFilm(e Entities) Result {
	var last Result
	for _, product := range e.Products {
		for _, film := range e.Films {
			last = m.matrix.ColorsForProductFilm(product, film)
			if last.Matched {
				return last
			}
		}
	}
	return last
}

func (m *Matcher) matchProduct(e Entities) Result {
	var last Result
	for _, product := range e.Products {
		last = m.matrix.FilmsForProduct(product)
		if last.Matched {
			return last
		}
	}
	return last
}

func (m *Matcher) matchFilm(e Entities) Result {
	var last Result
	for _, film := range e.Films {
		last = m.matrix.ProductsForFilm(film)
		if last.Matched {
			return last
		}
	}
	return last
}

// matchColor tries the configured color lookups in policy order; the first
// matched result wins, otherwise the last negative one is returned.
func (m *Matcher) matchColor(e Entities) Result {
	var last Result
	for _, step := range m.colorOrder {
		for _, color := range e.Colors {
			switch step {
			case ColorStepProducts:
				last = m.matrix.ProductsForColor(color)
			case ColorStepFilmColors:
				last = m.matrix.FilmColorsForColor(color)
			case ColorStepFilms:
				last = m.matrix.FilmsForColor(color)
			}
			if last.Matched {
				return last
			}
		}
	}
	return last
}
