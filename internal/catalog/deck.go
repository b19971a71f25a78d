package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Deck size bounds enforced by Validate. Card ids are unique per match, so
// a deck lists every id exactly once.
const (
	MinDeckSize  = 15
	MaxDeckSize  = 40
	MinLeaderCnt = 1
	MaxLeaderCnt = 5
)

// DeckFile is the top-level YAML structure of a deck list file.
type DeckFile struct {
	Decks []DeckEntry `yaml:"decks"`
}

// DeckEntry is a single named deck: leaders in battle order plus the main
// deck in initial (pre-shuffle) order.
type DeckEntry struct {
	Name    string   `yaml:"name"`
	Leaders []string `yaml:"leaders"`
	Cards   []string `yaml:"cards"`
}

// ParseDeckFile parses a YAML deck list from disk.
func ParseDeckFile(path string) (*DeckFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseDeckData(data)
}

// ParseDeckData parses a YAML deck list from memory.
func ParseDeckData(data []byte) (*DeckFile, error) {
	var df DeckFile
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parse deck YAML: %w", err)
	}
	return &df, nil
}

// DeckByNumber returns the Nth deck (1-indexed), validated against the
// catalog.
func (c *Catalog) DeckByNumber(df *DeckFile, n int) (DeckEntry, error) {
	if n < 1 || n > len(df.Decks) {
		return DeckEntry{}, fmt.Errorf("deck %d not found (have %d decks)", n, len(df.Decks))
	}
	entry := df.Decks[n-1]
	if err := c.Validate(entry); err != nil {
		return DeckEntry{}, err
	}
	return entry, nil
}

// Validate checks a deck entry for catalog membership, leader counts,
// duplicate ids and size bounds.
func (c *Catalog) Validate(entry DeckEntry) error {
	if len(entry.Leaders) < MinLeaderCnt || len(entry.Leaders) > MaxLeaderCnt {
		return fmt.Errorf("deck %q: leader count %d outside [%d,%d]",
			entry.Name, len(entry.Leaders), MinLeaderCnt, MaxLeaderCnt)
	}
	seen := make(map[string]bool)
	for _, id := range entry.Leaders {
		def, err := c.Get(id)
		if err != nil {
			return fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		if def.Kind != KindLeader {
			return fmt.Errorf("deck %q: %s is not a leader", entry.Name, id)
		}
		if seen[id] {
			return fmt.Errorf("deck %q: duplicate card id %s", entry.Name, id)
		}
		seen[id] = true
	}
	for _, id := range entry.Cards {
		def, err := c.Get(id)
		if err != nil {
			return fmt.Errorf("deck %q: %w", entry.Name, err)
		}
		if def.Kind == KindLeader {
			return fmt.Errorf("deck %q: leader %s in main deck", entry.Name, id)
		}
		if seen[id] {
			return fmt.Errorf("deck %q: duplicate card id %s", entry.Name, id)
		}
		seen[id] = true
	}
	if len(entry.Cards) < MinDeckSize || len(entry.Cards) > MaxDeckSize {
		return fmt.Errorf("deck %q: size %d outside [%d,%d]",
			entry.Name, len(entry.Cards), MinDeckSize, MaxDeckSize)
	}
	return nil
}

// DisjointDecks checks that two deck entries share no card ids. The engine
// requires every card id to be unique across a match.
func DisjointDecks(a, b DeckEntry) error {
	ids := make(map[string]bool)
	for _, id := range append(append([]string(nil), a.Leaders...), a.Cards...) {
		ids[id] = true
	}
	for _, id := range append(append([]string(nil), b.Leaders...), b.Cards...) {
		if ids[id] {
			return fmt.Errorf("decks %q and %q both contain card %s", a.Name, b.Name, id)
		}
	}
	return nil
}
