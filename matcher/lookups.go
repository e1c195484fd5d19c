package matcher

import (
	"fmt"
	"strings"
)

// FilmsForProduct lists the films available for a product named anywhere in
// the user-supplied string.
func (m *Matrix) FilmsForProduct(productName string) Result {
	product, ok := m.findProduct(productName)
	if !ok {
		return noMatch("該当する製品種が見つかりませんでした。")
	}
	films := append([]string(nil), m.films[product]...)
	return Result{
		Matched: true,
		Kind:    KindProductToFilms,
		Product: product,
		Films:   films,
		Message: fmt.Sprintf("%sで使用できるフィルムは：%sです。", product, strings.Join(films, "、")),
	}
}

// ColorsForProductFilm lists the print colors for a (product, film) pair.
func (m *Matrix) ColorsForProductFilm(productName, filmName string) Result {
	product, ok := m.findProduct(productName)
	if !ok {
		return noMatch("該当する製品とフィルムの組み合わせが見つかりませんでした。")
	}
	film, ok := m.findFilm(product, filmName)
	if !ok {
		return noMatch("該当する製品とフィルムの組み合わせが見つかりませんでした。")
	}
	colors := append([]string(nil), m.colors[product][film]...)
	return Result{
		Matched: true,
		Kind:    KindProductFilmToColors,
		Product: product,
		Film:    film,
		Colors:  colors,
		Message: fmt.Sprintf("%sの%sでは以下の色が使用できます：%s。", product, film, strings.Join(colors, "、")),
	}
}

// ProductsForFilm lists the products a film can be used with.
func (m *Matrix) ProductsForFilm(filmName string) Result {
	var products []string
	for _, product := range m.products {
		if _, ok := m.findFilm(product, filmName); ok {
			products = append(products, product)
		}
	}
	if len(products) == 0 {
		return noMatch("該当するフィルムに対応する製品が見つかりませんでした。")
	}
	return Result{
		Matched:  true,
		Kind:     KindFilmToProducts,
		Film:     filmName,
		Products: products,
		Message:  fmt.Sprintf("%sを使用できる製品は：%sです。", filmName, strings.Join(products, "、")),
	}
}

// FilmsForColor lists the films that can be printed in the given color.
func (m *Matrix) FilmsForColor(colorName string) Result {
	var films []string
	seen := make(map[string]bool)
	for _, product := range m.products {
		for _, film := range m.films[product] {
			if seen[film] {
				continue
			}
			if containsColor(m.colors[product][film], colorName) {
				seen[film] = true
				films = append(films, film)
			}
		}
	}
	if len(films) == 0 {
		return noMatch("該当する印刷色が見つかりませんでした。")
	}
	return Result{
		Matched: true,
		Kind:    KindColorToFilms,
		Color:   colorName,
		Films:   films,
		Message: fmt.Sprintf("%sの印刷が可能なフィルムは：%sです。", colorName, strings.Join(films, "、")),
	}
}

// ProductsForColor lists the products that have at least one film printable
// in the given color.
func (m *Matrix) ProductsForColor(colorName string) Result {
	var products []string
	for _, product := range m.products {
		for _, film := range m.films[product] {
			if containsColor(m.colors[product][film], colorName) {
				products = append(products, product)
				break
			}
		}
	}
	if len(products) == 0 {
		return noMatch("該当する印刷色に対応する製品が見つかりませんでした。")
	}
	return Result{
		Matched:  true,
		Kind:     KindColorToProducts,
		Color:    colorName,
		Products: products,
		Message:  fmt.Sprintf("%sの印刷に対応できる製品は：%sです。", colorName, strings.Join(products, "、")),
	}
}

// FilmColorsForColor lists, per film, the full color set of every film that
// carries the given color.
func (m *Matrix) FilmColorsForColor(colorName string) Result {
	var pairs []FilmColors
	seen := make(map[string]bool)
	for _, product := range m.products {
		for _, film := range m.films[product] {
			if seen[film] {
				continue
			}
			colors := m.colors[product][film]
			if containsColor(colors, colorName) {
				seen[film] = true
				pairs = append(pairs, FilmColors{Film: film, Colors: append([]string(nil), colors...)})
			}
		}
	}
	if len(pairs) == 0 {
		return noMatch("該当する印刷色の組み合わせが見つかりませんでした。")
	}
	parts := make([]string, 0, len(pairs))
	for _, fc := range pairs {
		parts = append(parts, fmt.Sprintf("%s（%s）", fc.Film, strings.Join(fc.Colors, "、")))
	}
	return Result{
		Matched:    true,
		Kind:       KindColorToFilmColors,
		Color:      colorName,
		FilmColors: pairs,
		Message:    fmt.Sprintf("%sを印刷できるフィルムと色の組み合わせは：%sです。", colorName, strings.Join(parts, "、")),
	}
}

func containsColor(colors []string, color string) bool {
	for _, c := range colors {
		if c == color {
			return true
		}
	}
	return false
}
