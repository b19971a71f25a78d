package game

import (
	"time"

	"revreb/internal/catalog"
)

// Zones is one player's half of the field. Help and sp hold at most one
// card; a battle zone may stack one face-down card under one face-up
// character.
type Zones struct {
	Leader string      `json:"leader"`
	Top    []FieldCard `json:"top"`
	Left   []FieldCard `json:"left"`
	Right  []FieldCard `json:"right"`
	Help   []FieldCard `json:"help"`
	SP     []FieldCard `json:"sp"`
}

// Slot returns the slice backing a zone.
func (z *Zones) Slot(zone Zone) *[]FieldCard {
	switch zone {
	case ZoneTop:
		return &z.Top
	case ZoneLeft:
		return &z.Left
	case ZoneRight:
		return &z.Right
	case ZoneHelp:
		return &z.Help
	case ZoneSP:
		return &z.SP
	}
	return nil
}

// Occupied reports whether the zone already holds a card.
func (z *Zones) Occupied(zone Zone) bool {
	s := z.Slot(zone)
	return s != nil && len(*s) > 0
}

// CardAt returns the first card in a zone, if any.
func (z *Zones) CardAt(zone Zone) (*FieldCard, bool) {
	s := z.Slot(zone)
	if s == nil || len(*s) == 0 {
		return nil, false
	}
	return &(*s)[0], true
}

// FaceUpAt returns the face-up card in a zone, if any.
func (z *Zones) FaceUpAt(zone Zone) (*FieldCard, bool) {
	s := z.Slot(zone)
	if s == nil {
		return nil, false
	}
	for i := range *s {
		if !(*s)[i].FaceDown {
			return &(*s)[i], true
		}
	}
	return nil, false
}

// FaceDownAt returns the face-down card in a zone, if any.
func (z *Zones) FaceDownAt(zone Zone) (*FieldCard, bool) {
	s := z.Slot(zone)
	if s == nil {
		return nil, false
	}
	for i := range *s {
		if (*s)[i].FaceDown {
			return &(*s)[i], true
		}
	}
	return nil, false
}

// FindCard locates a card id anywhere on the field, leader excluded.
func (z *Zones) FindCard(cardID string) (Zone, *FieldCard, bool) {
	for _, zone := range AllZones {
		s := z.Slot(zone)
		for i := range *s {
			if (*s)[i].CardID == cardID {
				return zone, &(*s)[i], true
			}
		}
	}
	return 0, nil, false
}

// Clear empties the given zones, returning the removed card ids.
func (z *Zones) Clear(zones ...Zone) []string {
	var removed []string
	for _, zone := range zones {
		s := z.Slot(zone)
		for _, fc := range *s {
			removed = append(removed, fc.CardID)
		}
		*s = nil
	}
	return removed
}

// PlayerState is everything one player owns: identity, cards, leaders,
// score, and the derived field effects.
type PlayerState struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Hand               []string      `json:"hand"`
	MainDeck           []string      `json:"mainDeck"`
	DiscardPile        []string      `json:"discardPile"`
	LeaderList         []string      `json:"leaderList"`
	CurrentLeaderIndex int           `json:"currentLeaderIndex"`
	VictoryPoints      int           `json:"victoryPoints"`
	PlayerPoint        int           `json:"playerPoint"`
	Ready              bool          `json:"ready"`
	RedrawUsed         bool          `json:"redrawUsed"`
	TurnActions        int           `json:"turnActions"`
	FieldEffects       *FieldEffects `json:"fieldEffects"`
}

// CurrentLeader returns the active leader's card id, empty when the
// leader list is exhausted.
func (p *PlayerState) CurrentLeader() string {
	if p.CurrentLeaderIndex < 0 || p.CurrentLeaderIndex >= len(p.LeaderList) {
		return ""
	}
	return p.LeaderList[p.CurrentLeaderIndex]
}

// OnLastLeader reports whether no further leader remains after this one.
func (p *PlayerState) OnLastLeader() bool {
	return p.CurrentLeaderIndex >= len(p.LeaderList)-1
}

// HandIndex returns the position of a card id in hand, -1 when absent.
func (p *PlayerState) HandIndex(cardID string) int {
	for i, id := range p.Hand {
		if id == cardID {
			return i
		}
	}
	return -1
}

// RemoveFromHand takes a card out of hand by index.
func (p *PlayerState) RemoveFromHand(idx int) string {
	id := p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)
	return id
}

// MatchState is the full authoritative state of one duel. The play
// sequence is the source of truth for effects; FieldEffects and card
// powers are derived and rebuilt by Simulate.
type MatchState struct {
	ID      string `json:"id"`
	Seed    int64  `json:"seed"`
	RNGUses int    `json:"rngUses"`

	Players       [2]*PlayerState   `json:"players"`
	Zones         map[string]*Zones `json:"zones"`
	Phase         Phase             `json:"phase"`
	CurrentTurn   int               `json:"currentTurn"`
	FirstPlayer   string            `json:"firstPlayer"`
	CurrentPlayer string            `json:"currentPlayer"`

	PlaySequence     []PlayRecord `json:"playSequence"`
	PendingSelection *Selection   `json:"pendingSelection,omitempty"`

	Events      []Event `json:"events"`
	NextEventID int     `json:"nextEventId"`

	NeutralizationHistory []NeutralizationRecord `json:"neutralizationHistory"`

	Winner    string    `json:"winner,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlayerByID returns the player with the given id.
func (m *MatchState) PlayerByID(id string) (*PlayerState, bool) {
	for _, p := range m.Players {
		if p != nil && p.ID == id {
			return p, true
		}
	}
	return nil, false
}

// PlayerIndex returns the array index of a player id, -1 when unknown.
func (m *MatchState) PlayerIndex(id string) int {
	for i, p := range m.Players {
		if p != nil && p.ID == id {
			return i
		}
	}
	return -1
}

// Opponent returns the other player.
func (m *MatchState) Opponent(id string) *PlayerState {
	for _, p := range m.Players {
		if p != nil && p.ID != id {
			return p
		}
	}
	return nil
}

// ZonesFor returns a player's field, creating it on first use.
func (m *MatchState) ZonesFor(playerID string) *Zones {
	z, ok := m.Zones[playerID]
	if !ok {
		z = &Zones{}
		m.Zones[playerID] = z
	}
	return z
}

// OwnerOf finds which player has the card on field or as current leader.
func (m *MatchState) OwnerOf(cardID string) (*PlayerState, Zone, bool) {
	for _, p := range m.Players {
		z := m.ZonesFor(p.ID)
		if z.Leader == cardID {
			return p, 0, true
		}
		if zone, _, ok := z.FindCard(cardID); ok {
			return p, zone, true
		}
	}
	return nil, 0, false
}

// defOf is a shorthand for catalog lookup during simulation, where the
// sequence has already been integrity checked.
func defOf(c *catalog.Catalog, cardID string) (*catalog.CardDef, error) {
	def, err := c.Get(cardID)
	if err != nil {
		return nil, ruleErr(ErrSequenceIntegrity, "card %q in play sequence missing from catalog", cardID)
	}
	return def, nil
}
