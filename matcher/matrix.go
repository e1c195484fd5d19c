package matcher

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Matrix is the product → film → color compatibility data, loaded once at
// startup and immutable afterwards. Key order follows the source file so
// lookups resolve deterministically.
type Matrix struct {
	products []string
	films    map[string][]string            // product → ordered film names
	colors   map[string]map[string][]string // product → film → colors
}

// LoadMatrix reads the compatibility matrix from a JSON file shaped as
// {product: {film: [colors...]}}.
func LoadMatrix(path string) (*Matrix, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read compatibility matrix: %w", err)
	}
	return ParseMatrix(data)
}

// ParseMatrix decodes matrix JSON preserving the key order of the document.
func ParseMatrix(data []byte) (*Matrix, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))

	m := &Matrix{
		films:  make(map[string][]string),
		colors: make(map[string]map[string][]string),
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parse compatibility matrix: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("parse compatibility matrix: expected object at top level")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("parse compatibility matrix: %w", err)
		}
		product := keyTok.(string)

		filmColors, filmOrder, err := decodeFilmObject(dec)
		if err != nil {
			return nil, fmt.Errorf("parse films for %s: %w", product, err)
		}
		for film, colors := range filmColors {
			if len(colors) == 0 {
				return nil, fmt.Errorf("film %s under %s has no colors", film, product)
			}
		}

		m.products = append(m.products, product)
		m.films[product] = filmOrder
		m.colors[product] = filmColors
	}

	if len(m.products) == 0 {
		return nil, fmt.Errorf("compatibility matrix is empty")
	}
	return m, nil
}

func decodeFilmObject(dec *json.Decoder) (map[string][]string, []string, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, nil, fmt.Errorf("expected film object")
	}

	filmColors := make(map[string][]string)
	var order []string
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, nil, err
		}
		film := keyTok.(string)

		var colors []string
		if err := dec.Decode(&colors); err != nil {
			return nil, nil, err
		}
		filmColors[film] = colors
		order = append(order, film)
	}
	if _, err := dec.Token(); err != nil { // closing brace
		return nil, nil, err
	}
	return filmColors, order, nil
}

// Products returns the product keys in file order.
func (m *Matrix) Products() []string {
	return m.products
}

// findProduct resolves a user-supplied product name to a canonical matrix
// key by substring containment (canonical ⊆ input). When several keys are
// contained in the input the longest one wins, so X増量タイプ is not
// shadowed by X型.
func (m *Matrix) findProduct(name string) (string, bool) {
	best := ""
	for _, product := range m.products {
		if strings.Contains(name, product) && len(product) > len(best) {
			best = product
		}
	}
	return best, best != ""
}

func (m *Matrix) findFilm(product, name string) (string, bool) {
	best := ""
	for _, film := range m.films[product] {
		if strings.Contains(name, film) && len(film) > len(best) {
			best = film
		}
	}
	return best, best != ""
}
