package catalog

import (
	"errors"
	"testing"

	"go.uber.org/zap"
)

func TestLoadEmbedded(t *testing.T) {
	c, err := Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Len() == 0 {
		t.Fatal("catalog is empty")
	}

	leader, err := c.Get("l-trump")
	if err != nil {
		t.Fatalf("get l-trump: %v", err)
	}
	if leader.Kind != KindLeader || leader.BasePower != 100 {
		t.Errorf("l-trump = %+v", leader)
	}
	if !leader.ZoneCompatibility.Allows(ZoneTop, TypeEconomy) {
		t.Error("l-trump should allow economy cards on TOP")
	}
	if leader.ZoneCompatibility.Allows(ZoneTop, TypePatriot) {
		t.Error("l-trump should refuse patriot cards on TOP")
	}
	if !leader.ZoneCompatibility.Allows(ZoneLeft, TypePatriot) {
		t.Error("an ALL zone admits every game type")
	}

	char := c.MustGet("c-veteran")
	if !char.IsCharacter() || !char.HasTrait("militia") {
		t.Errorf("c-veteran = %+v", char)
	}
	if sp := c.MustGet("sp-shield"); !sp.ImmuneToNeutralization {
		t.Error("sp-shield should be immune to neutralization")
	}

	_, err = c.Get("c-nobody")
	var nf *CardNotFoundError
	if !errors.As(err, &nf) || nf.ID != "c-nobody" {
		t.Fatalf("miss = %v, want CardNotFoundError", err)
	}
	if c.Has("c-nobody") {
		t.Error("Has reported a card the catalog does not hold")
	}
}

// TestRuleNormalization checks the per-kind defaults the loader
// guarantees on top of the raw card data.
func TestRuleNormalization(t *testing.T) {
	c, err := Load(zap.NewNop())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	search := c.MustGet("c-edwards").Rules[0]
	if search.Kind != RuleSearchCard || search.Trigger != TriggerOnSummon {
		t.Errorf("edwards rule = %+v", search)
	}
	if search.SearchCount != 7 || search.SelectCount != 1 || search.Destination != DestSPZone {
		t.Errorf("edwards search params = %+v", search)
	}
	if search.Filter.Kind != KindSP {
		t.Errorf("edwards filter = %+v", search.Filter)
	}

	// neutralizeEffect with requiresSelection gets selectCount 1 and an
	// opponent scope by default.
	purge := c.MustGet("h-purge").Rules[0]
	if purge.Kind != RuleNeutralizeEffect || !purge.RequiresSelection || purge.SelectCount != 1 {
		t.Errorf("purge rule = %+v", purge)
	}
	if purge.Target.Scope != ScopeOpponent {
		t.Errorf("purge scope = %s", purge.Target.Scope)
	}

	// preventSummon is legacy data normalized into a zone restriction.
	lincoln := c.MustGet("l-lincoln").Rules[0]
	if lincoln.Kind != RuleZoneRestriction || lincoln.Trigger != TriggerContinuous {
		t.Errorf("lincoln rule = %+v", lincoln)
	}
	if lincoln.Target.Scope != ScopeOpponent || len(lincoln.Target.Zones) != 1 || lincoln.Target.Zones[0] != ZoneTop {
		t.Errorf("lincoln target = %+v", lincoln.Target)
	}

	nerf := c.MustGet("sp-coup").Rules[0]
	if nerf.Kind != RuleTotalPowerNerf || nerf.Trigger != TriggerFinalCalculation || nerf.Value != 30 {
		t.Errorf("coup rule = %+v", nerf)
	}

	vp := c.MustGet("sp-mandate").Rules[0]
	if vp.Kind != RuleVictoryPointMod || vp.Trigger != TriggerFinalCalculation || vp.Value != 10 {
		t.Errorf("mandate rule = %+v", vp)
	}
	if vp.Target.Scope != ScopeSelf {
		t.Errorf("mandate scope = %s, want SELF", vp.Target.Scope)
	}
}

func TestAddTableRejectsBadData(t *testing.T) {
	logger := zap.NewNop()

	c := &Catalog{cards: make(map[string]*CardDef)}
	dup := []byte(`
characters:
  - id: c-x
    kind: character
    name: X
  - id: c-x
    kind: character
    name: X again
`)
	if err := c.addTable(dup, logger); err == nil {
		t.Error("duplicate ids must be rejected")
	}

	c = &Catalog{cards: make(map[string]*CardDef)}
	anon := []byte(`
characters:
  - kind: character
    name: No ID
`)
	if err := c.addTable(anon, logger); err == nil {
		t.Error("cards without an id must be rejected")
	}
}

// Unknown effect kinds are dropped with a warning, not an error: old
// card data must keep loading as rules evolve.
func TestUnknownRuleKindSkipped(t *testing.T) {
	c := &Catalog{cards: make(map[string]*CardDef)}
	data := []byte(`
characters:
  - id: c-y
    kind: character
    name: Y
    basePower: 50
    effects:
      - type: timeTravel
        value: 3
      - type: powerBoost
        trigger: continuous
        value: 10
`)
	if err := c.addTable(data, zap.NewNop()); err != nil {
		t.Fatalf("add table: %v", err)
	}
	def := c.MustGet("c-y")
	if len(def.Rules) != 1 || def.Rules[0].Kind != RulePowerBoost {
		t.Errorf("rules = %+v, want just the power boost", def.Rules)
	}
}
