package keywords

import (
	"encoding/json"
	"fmt"
)

// Keyword is a single keyword or phrase with its weight.
type Keyword struct {
	Term   string  `json:"keyword"`
	Weight float64 `json:"weight"`
}

// Weights maps keywords to positive weights and remembers the order in
// which keywords were first added. The order is what makes ties in
// ScoreMatch deterministic.
//
// The zero value is an empty map ready to use. A Weights is not safe for
// concurrent mutation; once built it is only read.
type Weights struct {
	order  []string
	weight map[string]float64
}

// NewWeights returns an empty weight map.
func NewWeights() *Weights {
	return &Weights{weight: make(map[string]float64)}
}

// Add accumulates w onto term. Non-positive contributions and empty terms
// are ignored, so a stored weight is always > 0.
func (ws *Weights) Add(term string, w float64) {
	if term == "" || !(w > 0) {
		return
	}
	if ws.weight == nil {
		ws.weight = make(map[string]float64)
	}
	if _, ok := ws.weight[term]; !ok {
		ws.order = append(ws.order, term)
	}
	ws.weight[term] += w
}

// Get returns the weight of term.
func (ws *Weights) Get(term string) (float64, bool) {
	if ws == nil {
		return 0, false
	}
	w, ok := ws.weight[term]
	return w, ok
}

// Len is the number of distinct keywords.
func (ws *Weights) Len() int {
	if ws == nil {
		return 0
	}
	return len(ws.order)
}

// Total is the sum of all weights.
func (ws *Weights) Total() float64 {
	if ws == nil {
		return 0
	}
	var sum float64
	for _, k := range ws.order {
		sum += ws.weight[k]
	}
	return sum
}

// Entries returns the keywords in insertion order.
func (ws *Weights) Entries() []Keyword {
	if ws == nil {
		return []Keyword{}
	}
	out := make([]Keyword, 0, len(ws.order))
	for _, k := range ws.order {
		out = append(out, Keyword{Term: k, Weight: ws.weight[k]})
	}
	return out
}

// MarshalJSON encodes the map as an ordered array of keywords.
func (ws *Weights) MarshalJSON() ([]byte, error) {
	return json.Marshal(ws.Entries())
}

// UnmarshalJSON decodes the array form written by MarshalJSON.
func (ws *Weights) UnmarshalJSON(data []byte) error {
	var entries []Keyword
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("decode weights: %w", err)
	}
	ws.order = nil
	ws.weight = make(map[string]float64, len(entries))
	for _, e := range entries {
		ws.Add(e.Term, e.Weight)
	}
	return nil
}

// Terms returns just the keyword names of ks.
func Terms(ks []Keyword) []string {
	out := make([]string, 0, len(ks))
	for _, k := range ks {
		out = append(out, k.Term)
	}
	return out
}
