package catalog

import "fmt"

// Kind classifies a card definition.
type Kind string

const (
	KindLeader    Kind = "leader"
	KindCharacter Kind = "character"
	KindHelp      Kind = "help"
	KindSP        Kind = "sp"
)

// Game types carried by cards. The set is open-ended (decks may introduce
// new types), these are the ones the stock catalog uses.
const (
	TypeRightWing = "right-wing"
	TypeLeftWing  = "left-wing"
	TypeFreedom   = "freedom"
	TypeEconomy   = "economy"
	TypePatriot   = "patriot"
)

// Zone names as they appear in card data. The game package maps these onto
// its own zone indices.
const (
	ZoneTop   = "TOP"
	ZoneLeft  = "LEFT"
	ZoneRight = "RIGHT"
	ZoneHelp  = "HELP"
	ZoneSP    = "SP"
)

// BattleZones lists the three character zones in display order.
var BattleZones = []string{ZoneTop, ZoneLeft, ZoneRight}

// ZoneCompatibility maps a battle zone name to the game types a leader
// allows there. A nil slice (or the literal "ALL") means unrestricted.
type ZoneCompatibility map[string][]string

// Allows reports whether the leader permits the given game type in zone.
func (zc ZoneCompatibility) Allows(zone, gameType string) bool {
	types, ok := zc[zone]
	if !ok || len(types) == 0 {
		return true
	}
	for _, t := range types {
		if t == "ALL" || t == gameType {
			return true
		}
	}
	return false
}

// CardDef is an immutable card definition from the catalog tables.
type CardDef struct {
	ID        string   `yaml:"id"`
	Kind      Kind     `yaml:"kind"`
	Name      string   `yaml:"name"`
	BasePower int      `yaml:"basePower"`
	GameType  string   `yaml:"gameType"`
	Traits    []string `yaml:"traits"`

	// Leaders only.
	ZoneCompatibility ZoneCompatibility `yaml:"zoneCompatibility"`

	// Utility cards only.
	ImmuneToNeutralization bool `yaml:"immuneToNeutralization"`

	// Normalized effect rules. Populated by the loader from the raw
	// `effects` entries; unknown rule kinds are dropped there.
	Rules []Rule `yaml:"-"`
}

func (c *CardDef) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.ID)
}

// HasTrait reports whether the card carries the given trait.
func (c *CardDef) HasTrait(trait string) bool {
	for _, t := range c.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// IsCharacter reports whether the card is a character card.
func (c *CardDef) IsCharacter() bool { return c.Kind == KindCharacter }

// IsUtility reports whether the card is a help or sp card.
func (c *CardDef) IsUtility() bool { return c.Kind == KindHelp || c.Kind == KindSP }
