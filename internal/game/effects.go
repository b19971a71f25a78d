package game

import (
	"revreb/internal/catalog"
)

// Special-effect flag names in FieldEffects.SpecialEffects.
const (
	FlagZonePlacementFreedom = "zonePlacementFreedom"
	FlagSummonSilenced       = "summonEffectsSilenced"
	FlagComboBonusDisabled   = "comboBonusDisabled"
	FlagForceSPPlay          = "forceSPPlay"
)

// ZoneRestriction holds what a player may place in one zone: a leader
// allow-list plus effect-driven denials. The zero value allows everything.
type ZoneRestriction struct {
	All     bool     `json:"all"`
	Allowed []string `json:"allowed,omitempty"`
	Denied  []string `json:"denied,omitempty"`
}

func newOpenRestriction() *ZoneRestriction {
	return &ZoneRestriction{All: true}
}

// Allow replaces the allow-list (leader zone compatibility). A list
// containing "ALL" keeps the zone open.
func (r *ZoneRestriction) Allow(types []string) {
	if len(types) == 0 {
		r.All = true
		r.Allowed = nil
		return
	}
	for _, t := range types {
		if t == "ALL" {
			r.All = true
			r.Allowed = nil
			return
		}
	}
	r.All = false
	r.Allowed = append([]string(nil), types...)
}

// Deny subtracts game types from the zone (preventSummon style effects).
func (r *ZoneRestriction) Deny(types []string) {
	for _, t := range types {
		if !contains(r.Denied, t) {
			r.Denied = append(r.Denied, t)
		}
	}
}

// Check reports whether the game type may be placed. When it may not,
// denied tells whether an effect denial (rather than the leader
// allow-list) is the cause.
func (r *ZoneRestriction) Check(gameType string) (ok bool, denied bool) {
	if contains(r.Denied, gameType) {
		return false, true
	}
	if r.All {
		return true, false
	}
	return contains(r.Allowed, gameType), false
}

// Allows is Check without the cause.
func (r *ZoneRestriction) Allows(gameType string) bool {
	ok, _ := r.Check(gameType)
	return ok
}

// EffectTarget narrows the cards an active effect applies to.
type EffectTarget struct {
	Scope         catalog.TargetScope `json:"scope"`
	PlayerID      string              `json:"playerId"`
	Zones         []string            `json:"zones,omitempty"`
	GameTypes     []string            `json:"gameTypes,omitempty"`
	Traits        []string            `json:"traits,omitempty"`
	SpecificCards []string            `json:"specificCards,omitempty"`
}

// MatchesCard reports whether a face-up card in the given zone passes the
// target's constraints. Scope/owner routing has already happened by the
// time an effect sits in a player's table.
func (t *EffectTarget) MatchesCard(def *catalog.CardDef, zone Zone) bool {
	if t.Scope == catalog.ScopeSpecificCard {
		return contains(t.SpecificCards, def.ID)
	}
	if len(t.SpecificCards) > 0 && !contains(t.SpecificCards, def.ID) {
		return false
	}
	if len(t.Zones) > 0 && !contains(t.Zones, zone.String()) {
		return false
	}
	if len(t.GameTypes) > 0 && !contains(t.GameTypes, def.GameType) {
		return false
	}
	if len(t.Traits) > 0 {
		found := false
		for _, trait := range t.Traits {
			if def.HasTrait(trait) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// ActiveEffect is a normalized record of a card effect currently bearing
// on a player. Effects are never removed by neutralization, only disabled,
// so provenance survives for auditing and potential re-enablement.
type ActiveEffect struct {
	EffectID       string           `json:"effectId"`
	Source         string           `json:"source"`
	SourcePlayerID string           `json:"sourcePlayerId"`
	Kind           catalog.RuleKind `json:"type"`
	Target         EffectTarget     `json:"target"`
	Value          int              `json:"value"`
	Priority       int              `json:"priority"`
	Unremovable    bool             `json:"unremovable"`
	IsEnabled      bool             `json:"isEnabled"`
	CreatedAt      int              `json:"createdAt"` // sequenceId that emitted it

	DisabledBy       string `json:"disabledBy,omitempty"`
	DisabledAt       int    `json:"disabledAt,omitempty"`
	DisableReason    string `json:"disableReason,omitempty"`
	NeutralizationID string `json:"neutralizationId,omitempty"`
}

// disable flips the effect off, keeping provenance.
func (ae *ActiveEffect) disable(by string, at int, reason, neutralizationID string) {
	ae.IsEnabled = false
	ae.DisabledBy = by
	ae.DisabledAt = at
	ae.DisableReason = reason
	ae.NeutralizationID = neutralizationID
}

// FieldEffects is the derived per-player effect state, rebuilt from the
// play sequence on every mutation.
type FieldEffects struct {
	ZoneRestrictions      map[string]*ZoneRestriction `json:"zoneRestrictions"`
	ActiveEffects         []*ActiveEffect             `json:"activeEffects"`
	CalculatedPowers      map[string]int              `json:"calculatedPowers"`
	DisabledCards         []string                    `json:"disabledCards"`
	SpecialEffects        map[string]bool             `json:"specialEffects"`
	PlayRestrictions      map[string]bool             `json:"playRestrictions"`
	VictoryPointModifiers int                         `json:"victoryPointModifiers"`
}

// NewFieldEffects returns the reset state: everything open, nothing active.
func NewFieldEffects() *FieldEffects {
	fe := &FieldEffects{
		ZoneRestrictions: make(map[string]*ZoneRestriction, ZoneCount),
		CalculatedPowers: make(map[string]int),
		SpecialEffects:   make(map[string]bool),
		PlayRestrictions: map[string]bool{"help": false, "sp": false},
	}
	for _, z := range AllZones {
		fe.ZoneRestrictions[z.String()] = newOpenRestriction()
	}
	return fe
}

// Restriction returns the restriction for a zone, creating it if absent.
func (fe *FieldEffects) Restriction(z Zone) *ZoneRestriction {
	r, ok := fe.ZoneRestrictions[z.String()]
	if !ok {
		r = newOpenRestriction()
		fe.ZoneRestrictions[z.String()] = r
	}
	return r
}

// Flag reports a special-effect flag.
func (fe *FieldEffects) Flag(name string) bool {
	return fe.SpecialEffects[name]
}

// markDisabled records a card in the disabled list exactly once.
func (fe *FieldEffects) markDisabled(cardID string) {
	if !contains(fe.DisabledCards, cardID) {
		fe.DisabledCards = append(fe.DisabledCards, cardID)
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
