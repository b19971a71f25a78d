package catalog

import (
	"go.uber.org/zap"
)

// RuleKind is the normalized effect-rule tag. Card data carries free-form
// string kinds; everything the engine understands is listed here.
type RuleKind string

const (
	RulePowerBoost         RuleKind = "powerBoost"
	RuleSetPower           RuleKind = "setPower"
	RulePowerNullification RuleKind = "powerNullification"
	RuleZoneRestriction    RuleKind = "zoneRestriction"
	RuleDrawCards          RuleKind = "drawCards"
	RuleSearchCard         RuleKind = "searchCard"
	RuleRandomDiscard      RuleKind = "randomDiscard"
	RuleNeutralizeEffect   RuleKind = "neutralizeEffect"
	RuleSilenceOnSummon    RuleKind = "silenceOnSummon"
	RuleZoneFreedom        RuleKind = "zonePlacementFreedom"
	RuleDisableComboBonus  RuleKind = "disableComboBonus"
	RulePreventPlay        RuleKind = "preventPlay"
	RuleForceSPPlay        RuleKind = "forceSPPlay"
	RuleTotalPowerNerf     RuleKind = "totalPowerNerf"
	RuleVictoryPointMod    RuleKind = "victoryPointModifier"
)

// Trigger says when a rule fires.
type Trigger string

const (
	// TriggerContinuous rules emit an active effect for as long as the
	// source card sits face-up on the field.
	TriggerContinuous Trigger = "continuous"
	// TriggerOnSummon rules fire once when the card is played face-up.
	TriggerOnSummon Trigger = "onSummon"
	// TriggerBeforeCombo rules fire during battle resolution, before
	// totals and combo bonuses are computed (SP cards).
	TriggerBeforeCombo Trigger = "beforeCombo"
	// TriggerFinalCalculation rules apply after combo bonuses, on the
	// final per-player totals (e.g. totalPowerNerf).
	TriggerFinalCalculation Trigger = "finalCalculation"
)

// TargetScope says whose cards a rule affects.
type TargetScope string

const (
	ScopeSelf         TargetScope = "SELF"
	ScopeOpponent     TargetScope = "OPPONENT"
	ScopeAll          TargetScope = "ALL"
	ScopeSpecificCard TargetScope = "SPECIFIC_CARD"
)

// Target narrows the cards a rule applies to. Empty slices mean "no
// constraint on that axis".
type Target struct {
	Scope         TargetScope `yaml:"scope"`
	Zones         []string    `yaml:"zones"`
	GameTypes     []string    `yaml:"gameTypes"`
	Traits        []string    `yaml:"traits"`
	SpecificCards []string    `yaml:"specificCards"`
}

// Filter restricts deck-search eligibility.
type Filter struct {
	Kind     Kind   `yaml:"kind"`
	GameType string `yaml:"gameType"`
	Trait    string `yaml:"trait"`
}

// Matches reports whether a card definition passes the filter.
func (f Filter) Matches(def *CardDef) bool {
	if f.Kind != "" && def.Kind != f.Kind {
		return false
	}
	if f.GameType != "" && def.GameType != f.GameType {
		return false
	}
	if f.Trait != "" && !def.HasTrait(f.Trait) {
		return false
	}
	return true
}

// Destination says where deck-searched cards go.
type Destination string

const (
	DestHand     Destination = "hand"
	DestSPZone   Destination = "spZoneFaceDown"
	DestHelpZone Destination = "helpZoneFaceUp"
	// DestConditionalHelp places in the help zone if it is empty,
	// otherwise in hand.
	DestConditionalHelp Destination = "conditionalHelpZone"
)

// Condition gates a rule on game state at the time it is evaluated.
type Condition struct {
	OpponentLeaderGameType string `yaml:"opponentLeaderGameType"`
	OwnLeaderGameType      string `yaml:"ownLeaderGameType"`
	MinTurn                int    `yaml:"minTurn"`
}

// Rule is a normalized card effect rule. Which fields are meaningful
// depends on Kind; the normalizer guarantees the invariants per kind
// (e.g. searchCard always has SearchCount and SelectCount ≥ 1).
type Rule struct {
	Kind              RuleKind
	Trigger           Trigger
	Target            Target
	Value             int
	Count             int
	Priority          int
	Unremovable       bool
	RequiresSelection bool
	SearchCount       int
	SelectCount       int
	Filter            Filter
	Destination       Destination
	Condition         *Condition
}

// rawRule mirrors the YAML shape of an effect entry before normalization.
type rawRule struct {
	Type              string     `yaml:"type"`
	Trigger           string     `yaml:"trigger"`
	Value             int        `yaml:"value"`
	Count             int        `yaml:"count"`
	Priority          int        `yaml:"priority"`
	Unremovable       bool       `yaml:"unremovable"`
	RequiresSelection bool       `yaml:"requiresSelection"`
	SearchCount       int        `yaml:"searchCount"`
	SelectCount       int        `yaml:"selectCount"`
	Destination       string     `yaml:"destination"`
	Target            *Target    `yaml:"target"`
	Filter            *Filter    `yaml:"filter"`
	Condition         *Condition `yaml:"condition"`

	// preventSummon shorthand: restricted game types per zone, applied to
	// the targeted player's zone restrictions.
	GameTypes []string `yaml:"gameTypes"`
	Zones     []string `yaml:"zones"`
}

// knownKinds is the closed set the normalizer accepts.
var knownKinds = map[string]RuleKind{
	string(RulePowerBoost):         RulePowerBoost,
	string(RuleSetPower):           RuleSetPower,
	string(RulePowerNullification): RulePowerNullification,
	string(RuleZoneRestriction):    RuleZoneRestriction,
	string(RuleDrawCards):          RuleDrawCards,
	string(RuleSearchCard):         RuleSearchCard,
	string(RuleRandomDiscard):      RuleRandomDiscard,
	string(RuleNeutralizeEffect):   RuleNeutralizeEffect,
	string(RuleSilenceOnSummon):    RuleSilenceOnSummon,
	string(RuleZoneFreedom):        RuleZoneFreedom,
	string(RuleDisableComboBonus):  RuleDisableComboBonus,
	string(RulePreventPlay):        RulePreventPlay,
	string(RuleForceSPPlay):        RuleForceSPPlay,
	string(RuleTotalPowerNerf):     RuleTotalPowerNerf,
	string(RuleVictoryPointMod):    RuleVictoryPointMod,
}

// normalizeRules converts raw YAML effect entries into typed rules.
// Unknown kinds are logged and skipped, never fatal.
func normalizeRules(cardID string, raws []rawRule, logger *zap.Logger) []Rule {
	var rules []Rule
	for _, raw := range raws {
		rule, ok := normalizeRule(raw)
		if !ok {
			logger.Warn("skipping unknown effect rule",
				zap.String("card", cardID),
				zap.String("type", raw.Type))
			continue
		}
		rules = append(rules, rule)
	}
	return rules
}

func normalizeRule(raw rawRule) (Rule, bool) {
	// preventSummon is legacy card data for a leader zone restriction.
	if raw.Type == "preventSummon" {
		target := Target{Scope: ScopeSelf, Zones: raw.Zones, GameTypes: raw.GameTypes}
		if raw.Target != nil {
			target = *raw.Target
			if len(target.Zones) == 0 {
				target.Zones = raw.Zones
			}
			if len(target.GameTypes) == 0 {
				target.GameTypes = raw.GameTypes
			}
		}
		if len(target.Zones) == 0 {
			target.Zones = BattleZones
		}
		return Rule{
			Kind:      RuleZoneRestriction,
			Trigger:   TriggerContinuous,
			Target:    target,
			Condition: raw.Condition,
		}, true
	}

	kind, ok := knownKinds[raw.Type]
	if !ok {
		return Rule{}, false
	}

	rule := Rule{
		Kind:              kind,
		Trigger:           Trigger(raw.Trigger),
		Value:             raw.Value,
		Count:             raw.Count,
		Priority:          raw.Priority,
		Unremovable:       raw.Unremovable,
		RequiresSelection: raw.RequiresSelection,
		SearchCount:       raw.SearchCount,
		SelectCount:       raw.SelectCount,
		Destination:       Destination(raw.Destination),
		Condition:         raw.Condition,
	}
	if raw.Target != nil {
		rule.Target = *raw.Target
	}
	if raw.Filter != nil {
		rule.Filter = *raw.Filter
	}

	// Defaults per kind.
	if rule.Trigger == "" {
		switch kind {
		case RuleDrawCards, RuleSearchCard, RuleRandomDiscard:
			rule.Trigger = TriggerOnSummon
		case RuleTotalPowerNerf, RuleVictoryPointMod:
			rule.Trigger = TriggerFinalCalculation
		default:
			rule.Trigger = TriggerContinuous
		}
	}
	if rule.Target.Scope == "" {
		switch kind {
		case RuleNeutralizeEffect, RuleTotalPowerNerf, RulePreventPlay, RuleForceSPPlay:
			rule.Target.Scope = ScopeOpponent
		default:
			rule.Target.Scope = ScopeSelf
		}
	}
	switch kind {
	case RuleDrawCards, RuleRandomDiscard:
		if rule.Count <= 0 {
			rule.Count = 1
		}
	case RuleSearchCard:
		if rule.SearchCount <= 0 {
			rule.SearchCount = 5
		}
		if rule.SelectCount <= 0 {
			rule.SelectCount = 1
		}
		if rule.Destination == "" {
			rule.Destination = DestHand
		}
	case RuleNeutralizeEffect, RuleSetPower:
		if rule.RequiresSelection && rule.SelectCount <= 0 {
			rule.SelectCount = 1
		}
	}
	return rule, true
}
