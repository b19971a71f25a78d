package game

import (
	"hash/fnv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// openingHandSize is dealt to both players before the mulligan window.
const openingHandSize = 5

// PlayerSetup names one seat of a new match.
type PlayerSetup struct {
	ID   string
	Name string
	Deck catalog.DeckEntry
}

// NewMatch validates both decks, seeds the match RNG, shuffles, and
// deals opening hands. The match waits in the mulligan phase until both
// players call startReady.
func (e *Engine) NewMatch(a, b PlayerSetup) (*MatchState, error) {
	for _, setup := range []PlayerSetup{a, b} {
		if err := e.Catalog.Validate(setup.Deck); err != nil {
			return nil, err
		}
	}
	if err := catalog.DisjointDecks(a.Deck, b.Deck); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	m := &MatchState{
		ID:        id,
		Seed:      seedFromID(id),
		Zones:     make(map[string]*Zones, 2),
		Phase:     PhaseStartRedraw,
		CreatedAt: e.Now(),
	}
	for i, setup := range []PlayerSetup{a, b} {
		p := &PlayerState{
			ID:           setup.ID,
			Name:         setup.Name,
			MainDeck:     append([]string(nil), setup.Deck.Cards...),
			LeaderList:   append([]string(nil), setup.Deck.Leaders...),
			FieldEffects: NewFieldEffects(),
		}
		m.Players[i] = p
		m.ZonesFor(p.ID)
		m.shuffleDeck(p)
		m.drawCards(p, openingHandSize)
	}

	e.Logger.Info("match created",
		zap.String("match", m.ID),
		zap.String("p1", a.ID),
		zap.String("p2", b.ID))
	return m, nil
}

// seedFromID derives the persisted RNG seed from the match id.
func seedFromID(id string) int64 {
	h := fnv.New64a()
	h.Write([]byte(id))
	return int64(h.Sum64())
}
