package game

import "testing"

// TestProjectionHidesOpponentHand: the viewer sees their own hand but
// only counts for the opponent's hand and both decks.
func TestProjectionHidesOpponentHand(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-minuteman", "c-governor"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker", "c-activist"}, deck: fillerB},
	)

	view, err := e.Project(m, "p1")
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(view.You.Hand) != 2 || view.You.Hand[0] != "c-minuteman" {
		t.Errorf("own hand = %v", view.You.Hand)
	}
	if view.Opponent.Hand != nil {
		t.Errorf("opponent hand leaked: %v", view.Opponent.Hand)
	}
	if view.Opponent.HandCount != 2 {
		t.Errorf("opponent hand count = %d, want 2", view.Opponent.HandCount)
	}
	if view.You.DeckCount != len(fillerA) || view.Opponent.DeckCount != len(fillerB) {
		t.Errorf("deck counts = %d/%d", view.You.DeckCount, view.Opponent.DeckCount)
	}

	if _, err := e.Project(m, "nobody"); err == nil {
		t.Fatal("projecting for a stranger should fail")
	}
}

// TestProjectionScrubsFaceDown: a face-down card keeps its id for its
// owner and loses it for the opponent.
func TestProjectionScrubsFaceDown(t *testing.T) {
	e := newTestEngine(t)
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-minuteman"}, deck: fillerA},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker"}, deck: fillerB},
	)

	mustPlay(t, e, m, "p1", "c-minuteman", ZoneTop)
	if err := playCard(e, m, "p2", "c-hacker", ZoneTop, true); err != nil {
		t.Fatalf("face-down play: %v", err)
	}

	own, err := e.Project(m, "p2")
	if err != nil {
		t.Fatalf("project p2: %v", err)
	}
	if got := own.You.Zones.Top; len(got) != 1 || got[0].CardID != "c-hacker" || !got[0].FaceDown {
		t.Errorf("owner view of face-down card = %+v", got)
	}

	other, err := e.Project(m, "p1")
	if err != nil {
		t.Fatalf("project p1: %v", err)
	}
	if got := other.Opponent.Zones.Top; len(got) != 1 || got[0].CardID != "" || !got[0].FaceDown {
		t.Errorf("opponent view of face-down card = %+v", got)
	}
	if got := other.Opponent.Zones.Top[0].ValueOnField; got != 0 {
		t.Errorf("face-down card value = %d, want 0", got)
	}
	// The face-up card stays visible both ways.
	if got := other.You.Zones.Top; len(got) != 1 || got[0].CardID != "c-minuteman" {
		t.Errorf("own face-up card = %+v", got)
	}
}

// TestProjectionSelectionEligibility: eligible card ids are revealed
// only to the player who must choose.
func TestProjectionSelectionEligibility(t *testing.T) {
	e := newTestEngine(t)
	deck := []string{"c-pundit", "c-professor", "sp-uprising", "c-whistleblower",
		"c-activist", "c-anchor", "c-governor", "c-mogul", "c-lobbyist"}
	m := fieldMatch(t, e,
		seat{id: "p1", leader: "l-trump", hand: []string{"c-edwards"}, deck: deck},
		seat{id: "p2", leader: "l-marx", hand: []string{"c-hacker"}, deck: fillerB},
	)

	mustPlay(t, e, m, "p1", "c-edwards", ZoneLeft)
	if m.PendingSelection == nil {
		t.Fatal("expected a pending selection")
	}

	chooser, err := e.Project(m, "p1")
	if err != nil {
		t.Fatalf("project p1: %v", err)
	}
	sel := chooser.PendingSelection
	if sel == nil || len(sel.EligibleCardIDs) == 0 {
		t.Fatalf("chooser should see eligible cards, got %+v", sel)
	}

	watcher, err := e.Project(m, "p2")
	if err != nil {
		t.Fatalf("project p2: %v", err)
	}
	sel = watcher.PendingSelection
	if sel == nil {
		t.Fatal("opponent should still see that a selection is pending")
	}
	if len(sel.EligibleCardIDs) != 0 {
		t.Errorf("eligible cards leaked to opponent: %v", sel.EligibleCardIDs)
	}
}
