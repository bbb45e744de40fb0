package guide

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Tip is a curated insider hint for a named place, distinct from live
// search results.
type Tip struct {
	Place        string `json:"place"`
	UniversalTip string `json:"universal_tip"`
	Warning      string `json:"warning,omitempty"`
}

// TipBook holds the tips in declared order. The order matters: Match
// returns the first entry whose place name appears in the query, so the
// bundled file doubles as the tie-break priority list.
type TipBook struct {
	tips []Tip
}

// NewTipBook returns a TipBook over a copy of the supplied tips.
func NewTipBook(tips []Tip) *TipBook {
	return &TipBook{tips: append([]Tip(nil), tips...)}
}

// LoadTipBook reads the bundled JSON array of tips. The file is read once
// at startup and the book is never mutated afterwards.
func LoadTipBook(path string) (*TipBook, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tips file: %w", err)
	}

	var tips []Tip
	if err := json.Unmarshal(raw, &tips); err != nil {
		return nil, fmt.Errorf("parse tips file %s: %w", path, err)
	}

	return NewTipBook(tips), nil
}

// Len reports how many tips are loaded.
func (b *TipBook) Len() int {
	return len(b.tips)
}

// Match returns the first tip whose place name is a case-insensitive
// substring of the query, in declared file order.
func (b *TipBook) Match(query string) (Tip, bool) {
	lowered := strings.ToLower(query)
	for _, tip := range b.tips {
		if tip.Place == "" {
			continue
		}
		if strings.Contains(lowered, strings.ToLower(tip.Place)) {
			return tip, true
		}
	}
	return Tip{}, false
}
