package catalog

import (
	"embed"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed data
var dataFiles embed.FS

// CardNotFoundError indicates a lookup for a card id the catalog does not
// hold. This always means corrupt data, never a user mistake.
type CardNotFoundError struct {
	ID string
}

func (e *CardNotFoundError) Error() string {
	return fmt.Sprintf("card %q not found in catalog", e.ID)
}

// Catalog is the immutable card-definition lookup built at process start.
type Catalog struct {
	cards map[string]*CardDef
}

// rawCard mirrors a definition table entry before rule normalization.
type rawCard struct {
	CardDef `yaml:",inline"`
	Effects []rawRule `yaml:"effects"`
}

// table is the top-level YAML shape of a definition file. The three stock
// tables use different list keys; all are accepted from any file.
type table struct {
	Leaders    []rawCard `yaml:"leaders"`
	Characters []rawCard `yaml:"characters"`
	Utilities  []rawCard `yaml:"utilities"`
}

// Load builds the catalog from the embedded definition tables.
func Load(logger *zap.Logger) (*Catalog, error) {
	c := &Catalog{cards: make(map[string]*CardDef)}
	for _, name := range []string{"data/leaders.yaml", "data/characters.yaml", "data/utilities.yaml"} {
		data, err := dataFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		if err := c.addTable(data, logger); err != nil {
			return nil, fmt.Errorf("parse %s: %w", name, err)
		}
	}
	return c, nil
}

// LoadFiles builds a catalog from definition tables on disk.
func LoadFiles(logger *zap.Logger, paths ...string) (*Catalog, error) {
	c := &Catalog{cards: make(map[string]*CardDef)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := c.addTable(data, logger); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	return c, nil
}

func (c *Catalog) addTable(data []byte, logger *zap.Logger) error {
	var t table
	if err := yaml.Unmarshal(data, &t); err != nil {
		return err
	}
	for _, group := range [][]rawCard{t.Leaders, t.Characters, t.Utilities} {
		for i := range group {
			raw := group[i]
			if raw.ID == "" {
				return fmt.Errorf("card %q has no id", raw.Name)
			}
			if _, dup := c.cards[raw.ID]; dup {
				return fmt.Errorf("duplicate card id %q", raw.ID)
			}
			def := raw.CardDef
			def.Rules = normalizeRules(def.ID, raw.Effects, logger)
			c.cards[def.ID] = &def
		}
	}
	return nil
}

// Get looks up a card definition by id.
func (c *Catalog) Get(id string) (*CardDef, error) {
	def, ok := c.cards[id]
	if !ok {
		return nil, &CardNotFoundError{ID: id}
	}
	return def, nil
}

// MustGet is Get for callers that have already validated the id (replay
// over a sequence the engine itself produced). A miss panics.
func (c *Catalog) MustGet(id string) *CardDef {
	def, err := c.Get(id)
	if err != nil {
		panic(err)
	}
	return def
}

// Has reports whether the catalog holds the given card id.
func (c *Catalog) Has(id string) bool {
	_, ok := c.cards[id]
	return ok
}

// Len returns the number of card definitions loaded.
func (c *Catalog) Len() int { return len(c.cards) }

// DefaultDecks returns the deck lists embedded alongside the card tables.
func DefaultDecks() (*DeckFile, error) {
	data, err := dataFiles.ReadFile("data/decks.yaml")
	if err != nil {
		return nil, fmt.Errorf("read embedded decks: %w", err)
	}
	return ParseDeckData(data)
}

// IDs returns all card ids in unspecified order.
func (c *Catalog) IDs() []string {
	ids := make([]string, 0, len(c.cards))
	for id := range c.cards {
		ids = append(ids, id)
	}
	return ids
}
