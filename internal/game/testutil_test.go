package game

import (
	"testing"

	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// newTestEngine loads the embedded catalog with a silent logger and pins
// the first player to seat 0 so scripted scenarios are deterministic.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	cat, err := catalog.Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	e := NewEngine(cat, zap.NewNop())
	e.ForceFirstPlayer = 0
	return e
}

// seat describes one player of a hand-built match.
type seat struct {
	id     string
	leader string
	hand   []string
	deck   []string
}

// fieldMatch builds a match already sitting in main phase of turn 0,
// with both leaders seated and recorded. Seat a acts first.
func fieldMatch(t *testing.T, e *Engine, a, b seat) *MatchState {
	t.Helper()
	m := &MatchState{
		ID:    "m-test",
		Seed:  7,
		Zones: make(map[string]*Zones, 2),
		Phase: PhaseMain,
	}
	for i, s := range []seat{a, b} {
		p := &PlayerState{
			ID:           s.id,
			Name:         s.id,
			Hand:         append([]string(nil), s.hand...),
			MainDeck:     append([]string(nil), s.deck...),
			LeaderList:   []string{s.leader},
			FieldEffects: NewFieldEffects(),
		}
		m.Players[i] = p
		m.ZonesFor(p.ID).Leader = s.leader
		m.appendRecord(PlayRecord{PlayerID: p.ID, CardID: s.leader, Action: RecordPlayLeader})
	}
	m.FirstPlayer = a.id
	m.CurrentPlayer = a.id
	if err := e.Simulate(m); err != nil {
		t.Fatalf("initial simulate: %v", err)
	}
	return m
}

// mustAck acknowledges pending events for the player.
func mustAck(t *testing.T, e *Engine, m *MatchState, playerID string) {
	t.Helper()
	if err := e.ProcessAction(m, playerID, Action{Type: ActionAcknowledgeEvents}); err != nil {
		t.Fatalf("ack for %s: %v", playerID, err)
	}
}

// mustPlay plays a card by id, acknowledging the turn draw first when
// the match is waiting on it.
func mustPlay(t *testing.T, e *Engine, m *MatchState, playerID, cardID string, zone Zone) {
	t.Helper()
	if err := playCard(e, m, playerID, cardID, zone, false); err != nil {
		t.Fatalf("%s plays %s to %s: %v", playerID, cardID, zone, err)
	}
}

func playCard(e *Engine, m *MatchState, playerID, cardID string, zone Zone, faceDown bool) error {
	if m.Phase == PhaseDraw && m.CurrentPlayer == playerID {
		if err := e.ProcessAction(m, playerID, Action{Type: ActionAcknowledgeEvents}); err != nil {
			return err
		}
	}
	p, ok := m.PlayerByID(playerID)
	if !ok {
		return ruleErr(ErrWaitingForPlayer, "no player %q", playerID)
	}
	idx := p.HandIndex(cardID)
	if idx < 0 {
		return ruleErr(ErrCardNotFound, "%s not in hand of %s", cardID, playerID)
	}
	typ := ActionPlayCard
	if faceDown {
		typ = ActionPlayCardBack
	}
	return e.ProcessAction(m, playerID, Action{Type: typ, CardIndex: idx, FieldIndex: int(zone)})
}

// effectFrom finds the first active effect sourced from a card in the
// player's table.
func effectFrom(p *PlayerState, sourceCard string) *ActiveEffect {
	for _, ae := range p.FieldEffects.ActiveEffects {
		if ae.Source == sourceCard {
			return ae
		}
	}
	return nil
}

// wantKind asserts an error carries the given kind.
func wantKind(t *testing.T, err error, kind ErrorKind) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected %s, got nil", kind)
	}
	if got := KindOf(err); got != kind {
		t.Fatalf("expected %s, got %s (%v)", kind, got, err)
	}
}

// assertConservation checks that every expected card id appears exactly
// once across both players' hands, decks, discard piles, leader lists
// and zones, and that nothing else does.
func assertConservation(t *testing.T, m *MatchState, expected []string) {
	t.Helper()
	seen := make(map[string]int)
	for _, p := range m.Players {
		for _, group := range [][]string{p.Hand, p.MainDeck, p.DiscardPile, p.LeaderList} {
			for _, id := range group {
				seen[id]++
			}
		}
		z := m.ZonesFor(p.ID)
		for _, zone := range AllZones {
			for _, fc := range *z.Slot(zone) {
				seen[fc.CardID]++
			}
		}
	}
	for _, id := range expected {
		if seen[id] != 1 {
			t.Errorf("card %s appears %d times, want exactly 1", id, seen[id])
		}
		delete(seen, id)
	}
	for id, n := range seen {
		t.Errorf("unexpected card %s on the table %d times", id, n)
	}
}

// Deck padding. Card ids are unique across a match, so the two seats
// draw from disjoint pools.
var (
	fillerA = []string{"c-pundit", "c-professor", "c-whistleblower"}
	fillerB = []string{"c-senator", "c-organizer", "c-marshal"}
)
