package game

import (
	"testing"

	"go.uber.org/zap"

	"revreb/internal/catalog"
)

func lineup(t *testing.T, cat *catalog.Catalog, ids ...string) []*catalog.CardDef {
	t.Helper()
	defs := make([]*catalog.CardDef, 0, len(ids))
	for _, id := range ids {
		def, err := cat.Get(id)
		if err != nil {
			t.Fatalf("get %s: %v", id, err)
		}
		defs = append(defs, def)
	}
	return defs
}

func TestComboBonus(t *testing.T) {
	cat, err := catalog.Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	cases := []struct {
		name string
		ids  []string
		want int
	}{
		{"empty line", nil, 0},
		{"single card", []string{"c-banker"}, 0},
		// Same type and a shared trait pay out together even on a
		// two-card line.
		{"pair of financiers", []string{"c-trader", "c-banker"},
			catalog.BonusAllSameType + catalog.BonusTraitSynergy},
		{"mixed pair", []string{"c-trader", "c-minuteman"}, catalog.BonusAllDifferentType},
		// Economy sweep: same type, finance synergy, every base power
		// at the threshold, and a spread inside the balanced window.
		{"economy sweep", []string{"c-trader", "c-banker", "c-mogul"},
			catalog.BonusAllSameType + catalog.BonusTraitSynergy +
				catalog.BonusHighPower + catalog.BonusBalanced},
		// Patriot line: the 40-point spread breaks the balanced bonus.
		{"patriot line", []string{"c-minuteman", "c-veteran", "c-general"},
			catalog.BonusAllSameType + catalog.BonusTraitSynergy + catalog.BonusHighPower},
		// Two right-wing cards block both type patterns.
		{"lopsided types", []string{"c-governor", "c-senator", "c-anchor"},
			catalog.BonusHighPower + catalog.BonusBalanced},
		// All three types distinct, but the weak activist drags power
		// and the spread.
		{"rainbow underdogs", []string{"c-activist", "c-hacker", "c-marshal"},
			catalog.BonusAllDifferentType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := comboBonus(lineup(t, cat, tc.ids...)); got != tc.want {
				t.Errorf("comboBonus(%v) = %d, want %d", tc.ids, got, tc.want)
			}
		})
	}
}
