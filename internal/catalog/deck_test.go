package catalog

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestDefaultDecksValidate(t *testing.T) {
	c, err := Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	df, err := DefaultDecks()
	if err != nil {
		t.Fatalf("default decks: %v", err)
	}
	if len(df.Decks) < 2 {
		t.Fatalf("want at least two stock decks, have %d", len(df.Decks))
	}
	for n := range df.Decks {
		if _, err := c.DeckByNumber(df, n+1); err != nil {
			t.Errorf("deck %d: %v", n+1, err)
		}
	}
	if err := DisjointDecks(df.Decks[0], df.Decks[1]); err != nil {
		t.Errorf("stock decks overlap: %v", err)
	}

	if _, err := c.DeckByNumber(df, 0); err == nil {
		t.Error("deck numbers are 1-indexed")
	}
	if _, err := c.DeckByNumber(df, len(df.Decks)+1); err == nil {
		t.Error("out-of-range deck number must fail")
	}
}

func TestValidateRejections(t *testing.T) {
	c, err := Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	enough := []string{
		"c-minuteman", "c-veteran", "c-anchor", "c-pundit", "c-senator",
		"c-marshal", "c-general", "c-governor", "c-edwards", "c-mogul",
		"h-rally", "h-firewall", "h-warchest", "h-blackout", "sp-uprising",
	}

	cases := []struct {
		name string
		deck DeckEntry
		want string
	}{
		{"no leaders", DeckEntry{Name: "d", Cards: enough}, "leader count"},
		{"unknown leader", DeckEntry{Name: "d", Leaders: []string{"l-ghost"}, Cards: enough}, "not found"},
		{"character as leader", DeckEntry{Name: "d", Leaders: []string{"c-mogul"}}, "not a leader"},
		{"leader in main deck", DeckEntry{Name: "d", Leaders: []string{"l-trump"},
			Cards: append([]string{"l-washington"}, enough[:14]...)}, "leader l-washington in main deck"},
		{"duplicate card", DeckEntry{Name: "d", Leaders: []string{"l-trump"},
			Cards: append([]string{"c-minuteman"}, enough[:14]...)}, "duplicate"},
		{"too small", DeckEntry{Name: "d", Leaders: []string{"l-trump"}, Cards: enough[:3]}, "size"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := c.Validate(tc.deck)
			if err == nil {
				t.Fatal("validation should have failed")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error = %v, want it to mention %q", err, tc.want)
			}
		})
	}

	good := DeckEntry{Name: "d", Leaders: []string{"l-trump"}, Cards: enough}
	if err := c.Validate(good); err != nil {
		t.Errorf("valid deck rejected: %v", err)
	}
}
