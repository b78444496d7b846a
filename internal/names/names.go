// Package names hands out "Adjective Noun" display names for players who
// join without one.
package names

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"sync"

	"golang.org/x/exp/rand"
)

//go:embed player_names.csv
var defaultCSV string

const Fallback = "Anonymous"

type Generator struct {
	adjectives []string
	nouns      []string

	mu  sync.Mutex
	rng *rand.Rand
}

// Default builds a generator from the embedded name list. A zero seed picks
// one from the process-wide source.
func Default(seed uint64) *Generator {
	g, err := Parse(strings.NewReader(defaultCSV), seed)
	if err != nil {
		panic(fmt.Sprintf("embedded player names: %v", err))
	}
	return g
}

// Parse reads a CSV with a header row followed by adjective,noun rows.
// Rows with a blank column are skipped. Seeding follows Default.
func Parse(r io.Reader, seed uint64) (*Generator, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read player names: %w", err)
	}

	if seed == 0 {
		seed = rand.Uint64()
	}
	g := &Generator{rng: rand.New(rand.NewSource(seed))}
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue
		}
		adj, noun := strings.TrimSpace(rec[0]), strings.TrimSpace(rec[1])
		if adj == "" || noun == "" {
			continue
		}
		g.adjectives = append(g.adjectives, adj)
		g.nouns = append(g.nouns, noun)
	}
	if len(g.adjectives) == 0 {
		return nil, fmt.Errorf("no player names found")
	}
	return g, nil
}

// Name picks an adjective and a noun independently.
func (g *Generator) Name() string {
	if g == nil || len(g.adjectives) == 0 {
		return Fallback
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	adj := g.adjectives[g.rng.Intn(len(g.adjectives))]
	noun := g.nouns[g.rng.Intn(len(g.nouns))]
	return adj + " " + noun
}
