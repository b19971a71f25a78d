package game

import (
	"encoding/json"
	"testing"

	"revreb/internal/catalog"
)

// TestDrawAckGate: after the turn hands over, the new current player sits
// in draw phase and cannot act until they acknowledge the turn draw.
func TestDrawAckGate(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-minuteman"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker"}, deck: fillerB},
	)

	if err := e.ProcessAction(m, "p1", Action{Type: ActionPlayCard, CardIndex: 0, FieldIndex: int(ZoneLeft)}); err != nil {
		t.Fatalf("p1 play: %v", err)
	}
	if m.Phase != PhaseDraw || m.CurrentPlayer != "p2" {
		t.Fatalf("phase=%s current=%s, want DRAW_PHASE/p2", m.Phase, m.CurrentPlayer)
	}

	p2, _ := m.PlayerByID("p2")
	idx := p2.HandIndex("c-hacker")
	err := e.ProcessAction(m, "p2", Action{Type: ActionPlayCard, CardIndex: idx, FieldIndex: int(ZoneLeft)})
	wantKind(t, err, ErrPhaseRestriction)

	mustAck(t, e, m, "p2")
	if m.Phase != PhaseMain {
		t.Fatalf("phase after ack = %s, want MAIN_PHASE", m.Phase)
	}
	idx = p2.HandIndex("c-hacker")
	if err := e.ProcessAction(m, "p2", Action{Type: ActionPlayCard, CardIndex: idx, FieldIndex: int(ZoneLeft)}); err != nil {
		t.Fatalf("p2 play after ack: %v", err)
	}
}

// TestRejectedActionMutatesNothing: a refused action leaves hands, zones,
// sequence and scores untouched. Only the event list may grow.
func TestRejectedActionMutatesNothing(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-minuteman", "h-rally"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker"}, deck: fillerB},
	)

	before := coreJSON(t, m)
	attempts := []struct {
		player string
		action Action
		kind   ErrorKind
	}{
		{"p2", Action{Type: ActionPlayCard, CardIndex: 0, FieldIndex: int(ZoneLeft)}, ErrWaitingForPlayer},
		{"p1", Action{Type: ActionPlayCard, CardIndex: 0, FieldIndex: 99}, ErrInvalidPosition},
		{"p1", Action{Type: ActionPlayCard, CardIndex: 12, FieldIndex: int(ZoneLeft)}, ErrInvalidCardIndex},
		{"p1", Action{Type: ActionPlayCard, CardIndex: 1, FieldIndex: int(ZoneLeft)}, ErrCardTypeZone},
		{"p1", Action{Type: ActionPlayCard, CardIndex: 0, FieldIndex: int(ZoneSP)}, ErrCardTypeZone},
	}
	for _, at := range attempts {
		err := e.ProcessAction(m, at.player, at.action)
		wantKind(t, err, at.kind)
		if got := coreJSON(t, m); got != before {
			t.Fatalf("state mutated by rejected %v:\n%s\nvs\n%s", at.action, before, got)
		}
	}
	if len(m.Events) == 0 {
		t.Error("rejections should be mirrored as events")
	}
}

// TestZoneOccupied: two face-up cards cannot share a zone.
func TestZoneOccupied(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-minuteman", "c-governor"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker", "c-activist"}, deck: fillerB},
	)
	mustPlay(t, e, m, "p1", "c-minuteman", ZoneLeft)
	mustPlay(t, e, m, "p2", "c-hacker", ZoneLeft)
	mustAck(t, e, m, "p1")

	p1, _ := m.PlayerByID("p1")
	idx := p1.HandIndex("c-governor")
	err := e.ProcessAction(m, "p1", Action{Type: ActionPlayCard, CardIndex: idx, FieldIndex: int(ZoneLeft)})
	wantKind(t, err, ErrZoneOccupied)
}

// TestFaceDownZoneCapacity: face-down plays skip the face-up rules but
// not zone capacity. Help holds a single card and a battle zone takes
// only one face-down card.
func TestFaceDownZoneCapacity(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"h-rally", "h-gag", "h-manifesto"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker", "c-activist"}, deck: fillerB},
	)

	if err := playCard(e, m, "p1", "h-rally", ZoneHelp, true); err != nil {
		t.Fatalf("face-down help play: %v", err)
	}
	if err := playCard(e, m, "p2", "c-hacker", ZoneLeft, true); err != nil {
		t.Fatalf("p2 face-down play: %v", err)
	}

	// A second card cannot join the occupied help zone, face down or up.
	err := playCard(e, m, "p1", "h-gag", ZoneHelp, true)
	wantKind(t, err, ErrZoneOccupied)
	err = playCard(e, m, "p1", "h-gag", ZoneHelp, false)
	wantKind(t, err, ErrZoneOccupied)
	if got := len(m.ZonesFor("p1").Help); got != 1 {
		t.Fatalf("help zone holds %d cards, want 1", got)
	}

	// One face-down bluff per battle zone.
	if err := playCard(e, m, "p1", "h-gag", ZoneLeft, true); err != nil {
		t.Fatalf("face-down battle play: %v", err)
	}
	if err := playCard(e, m, "p2", "c-activist", ZoneRight, true); err != nil {
		t.Fatalf("p2 second face-down play: %v", err)
	}
	err = playCard(e, m, "p1", "h-manifesto", ZoneLeft, true)
	wantKind(t, err, ErrZoneOccupied)
	if got := len(m.ZonesFor("p1").Left); got != 1 {
		t.Fatalf("left zone holds %d cards, want 1", got)
	}
}

// TestFaceUpStacksOverFaceDown: a battle zone holding only a face-down
// card still accepts a face-up character; a second face-up one is
// refused.
func TestFaceUpStacksOverFaceDown(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-veteran", "c-minuteman"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker", "c-activist"}, deck: fillerB},
	)

	if err := playCard(e, m, "p1", "c-veteran", ZoneLeft, true); err != nil {
		t.Fatalf("face-down play: %v", err)
	}
	mustPlay(t, e, m, "p2", "c-hacker", ZoneLeft)
	mustPlay(t, e, m, "p1", "c-minuteman", ZoneLeft)

	z := m.ZonesFor("p1")
	if got := len(z.Left); got != 2 {
		t.Fatalf("left zone holds %d cards, want a bluff under a character", got)
	}
	fc, ok := z.FaceUpAt(ZoneLeft)
	if !ok || fc.CardID != "c-minuteman" {
		t.Fatalf("face-up card in LEFT = %+v, want c-minuteman", fc)
	}

	// The face-up character scores; the bluff underneath does not.
	p1, _ := m.PlayerByID("p1")
	if p1.PlayerPoint != 155 {
		t.Errorf("playerPoint = %d, want 155 from the boosted character", p1.PlayerPoint)
	}

	// Only one face-up card per battle zone.
	err := playCard(e, m, "p2", "c-activist", ZoneLeft, false)
	wantKind(t, err, ErrZoneOccupied)
}

// TestPreventPlayBlocksHelp: Press Embargo stops the opponent from
// playing help cards while it sits on the field.
func TestPreventPlayBlocksHelp(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"h-embargo"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"h-manifesto"}, deck: fillerB},
	)
	mustPlay(t, e, m, "p1", "h-embargo", ZoneHelp)

	p2, _ := m.PlayerByID("p2")
	if !p2.FieldEffects.PlayRestrictions["help"] {
		t.Fatal("p2's help plays should be restricted")
	}
	mustAck(t, e, m, "p2")
	idx := p2.HandIndex("h-manifesto")
	err := e.ProcessAction(m, "p2", Action{Type: ActionPlayCard, CardIndex: idx, FieldIndex: int(ZoneHelp)})
	wantKind(t, err, ErrPreventPlay)
}

// TestStartReadyFlow: a match built from real deck lists waits for both
// mulligan decisions, then seats leaders and opens the first draw phase.
func TestStartReadyFlow(t *testing.T) {
	e := newTestEngine(t)
	df, err := catalog.DefaultDecks()
	if err != nil {
		t.Fatalf("default decks: %v", err)
	}
	d1, err := e.Catalog.DeckByNumber(df, 1)
	if err != nil {
		t.Fatalf("deck 1: %v", err)
	}
	d2, err := e.Catalog.DeckByNumber(df, 2)
	if err != nil {
		t.Fatalf("deck 2: %v", err)
	}

	m, err := e.NewMatch(
		PlayerSetup{ID: "p1", Name: "Alice", Deck: d1},
		PlayerSetup{ID: "p2", Name: "Bob", Deck: d2},
	)
	if err != nil {
		t.Fatalf("new match: %v", err)
	}
	if m.Phase != PhaseStartRedraw {
		t.Fatalf("phase = %s, want START_REDRAW", m.Phase)
	}
	for _, p := range m.Players {
		if len(p.Hand) != 5 {
			t.Errorf("%s opening hand = %d cards, want 5", p.ID, len(p.Hand))
		}
	}

	// A play before both players are ready is refused.
	err = e.ProcessAction(m, "p1", Action{Type: ActionPlayCard, CardIndex: 0, FieldIndex: 0})
	wantKind(t, err, ErrPhaseRestriction)

	if err := e.ProcessAction(m, "p1", Action{Type: ActionStartReady, Redraw: true}); err != nil {
		t.Fatalf("p1 ready: %v", err)
	}
	p1, _ := m.PlayerByID("p1")
	if len(p1.Hand) != 5 || !p1.RedrawUsed {
		t.Errorf("redraw should deal a fresh 5-card hand, got %d (used=%v)", len(p1.Hand), p1.RedrawUsed)
	}
	if m.Phase != PhaseStartRedraw {
		t.Fatal("match must wait for the second player")
	}

	if err := e.ProcessAction(m, "p2", Action{Type: ActionStartReady}); err != nil {
		t.Fatalf("p2 ready: %v", err)
	}
	if m.Phase != PhaseDraw || m.CurrentPlayer != "p1" {
		t.Fatalf("phase=%s current=%s, want DRAW_PHASE/p1", m.Phase, m.CurrentPlayer)
	}
	leaders := 0
	for _, rec := range m.PlaySequence {
		if rec.Action == RecordPlayLeader {
			leaders++
		}
	}
	if leaders != 2 {
		t.Errorf("play sequence has %d leader records, want 2", leaders)
	}
	if !m.pendingAckFor("p1") {
		t.Error("turn draw should require acknowledgement")
	}
}

// coreJSON snapshots everything but the event list.
func coreJSON(t *testing.T, m *MatchState) string {
	t.Helper()
	snap := struct {
		Players  [2]*PlayerState
		Zones    map[string]*Zones
		Sequence []PlayRecord
		Phase    Phase
		Turn     int
	}{m.Players, m.Zones, m.PlaySequence, m.Phase, m.CurrentTurn}
	doc, err := json.Marshal(snap)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return string(doc)
}
