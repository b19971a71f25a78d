package game

import (
	"fmt"

	"revreb/internal/catalog"
)

// Simulate rebuilds both players' derived effect state from the play
// sequence. It touches only FieldEffects, card powers and player point
// totals; hands, decks and zones are owned by the action handlers.
// Running it twice over the same sequence yields the same state.
func (e *Engine) Simulate(m *MatchState) error {
	if err := m.checkSequence(); err != nil {
		return err
	}

	for _, p := range m.Players {
		p.FieldEffects = NewFieldEffects()
	}

	var zoneNeutralizations []*PlayRecord

	for i := range m.PlaySequence {
		rec := &m.PlaySequence[i]
		switch rec.Action {
		case RecordPlayLeader:
			if err := e.replayLeader(m, rec); err != nil {
				return err
			}
		case RecordPlayCard:
			if err := e.replayCard(m, rec.PlayerID, rec.CardID, rec.SequenceID); err != nil {
				return err
			}
		case RecordSearch:
			if err := e.replaySearch(m, rec); err != nil {
				return err
			}
		case RecordSetPower:
			if err := e.replaySetPower(m, rec); err != nil {
				return err
			}
		case RecordNeutralization:
			if len(rec.Data.Zones) > 0 {
				zoneNeutralizations = append(zoneNeutralizations, rec)
				continue
			}
			if err := e.replayNeutralization(m, rec); err != nil {
				return err
			}
		case RecordDraw, RecordDiscard:
			// Card movement is already persisted in player state.
		}
	}

	// Zone-scoped neutralizations keep biting cards placed after them,
	// so they apply once the whole sequence is on the table.
	for _, rec := range zoneNeutralizations {
		if err := e.applyZoneNeutralization(m, rec); err != nil {
			return err
		}
	}

	e.applyFieldFlags(m)

	if err := e.computePowers(m); err != nil {
		return err
	}
	return e.computeTotals(m)
}

// effectID derives a stable id from the emitting record and rule index.
func effectID(sourceCard string, seq, ruleIdx int) string {
	return fmt.Sprintf("%s#%d-%d", sourceCard, seq, ruleIdx)
}

// affectedPlayer resolves which player's table an effect lands in.
func (m *MatchState) affectedPlayer(ownerID string, scope catalog.TargetScope) []*PlayerState {
	owner, _ := m.PlayerByID(ownerID)
	opp := m.Opponent(ownerID)
	switch scope {
	case catalog.ScopeOpponent:
		return []*PlayerState{opp}
	case catalog.ScopeAll:
		return []*PlayerState{owner, opp}
	default:
		return []*PlayerState{owner}
	}
}

func (e *Engine) conditionMet(m *MatchState, ownerID string, cond *catalog.Condition) bool {
	if cond == nil {
		return true
	}
	if cond.MinTurn > 0 && m.CurrentTurn < cond.MinTurn {
		return false
	}
	check := func(playerID, want string) bool {
		if want == "" {
			return true
		}
		leader := ""
		if p, ok := m.PlayerByID(playerID); ok {
			leader = p.CurrentLeader()
		}
		if leader == "" {
			return false
		}
		def, err := e.Catalog.Get(leader)
		return err == nil && def.GameType == want
	}
	if !check(ownerID, cond.OwnLeaderGameType) {
		return false
	}
	opp := m.Opponent(ownerID)
	if opp != nil && !check(opp.ID, cond.OpponentLeaderGameType) {
		return false
	}
	return cond.OpponentLeaderGameType == "" || opp != nil
}

// emitRule pushes one rule from a face-up card into the tables of the
// players it affects.
func (e *Engine) emitRule(m *MatchState, ownerID, sourceCard string, seq, ruleIdx int, rule catalog.Rule) {
	if !e.conditionMet(m, ownerID, rule.Condition) {
		return
	}
	for _, p := range m.affectedPlayer(ownerID, rule.Target.Scope) {
		if p == nil {
			continue
		}
		ae := &ActiveEffect{
			EffectID:       effectID(sourceCard, seq, ruleIdx),
			Source:         sourceCard,
			SourcePlayerID: ownerID,
			Kind:           rule.Kind,
			Target: EffectTarget{
				Scope:         rule.Target.Scope,
				PlayerID:      p.ID,
				Zones:         rule.Target.Zones,
				GameTypes:     rule.Target.GameTypes,
				Traits:        rule.Target.Traits,
				SpecificCards: rule.Target.SpecificCards,
			},
			Value:       rule.Value,
			Priority:    rule.Priority,
			Unremovable: rule.Unremovable,
			IsEnabled:   true,
			CreatedAt:   seq,
		}
		p.FieldEffects.ActiveEffects = append(p.FieldEffects.ActiveEffects, ae)
	}
}

// passiveTrigger reports whether a rule is emitted during replay rather
// than executed at action time.
func passiveTrigger(t catalog.Trigger) bool {
	return t == catalog.TriggerContinuous || t == catalog.TriggerFinalCalculation
}

// replayLeader applies a leader record. Only the record matching the
// player's current leader contributes; retired leaders leave no effects.
func (e *Engine) replayLeader(m *MatchState, rec *PlayRecord) error {
	p, ok := m.PlayerByID(rec.PlayerID)
	if !ok {
		return ruleErr(ErrSequenceIntegrity, "unknown player %q in play sequence", rec.PlayerID)
	}
	if m.ZonesFor(p.ID).Leader != rec.CardID || p.CurrentLeader() != rec.CardID {
		return nil
	}
	def, err := defOf(e.Catalog, rec.CardID)
	if err != nil {
		return err
	}
	for zone, types := range def.ZoneCompatibility {
		p.FieldEffects.Restriction(zoneByName(zone)).Allow(types)
	}
	for i, rule := range def.Rules {
		if passiveTrigger(rule.Trigger) {
			e.emitRule(m, p.ID, rec.CardID, rec.SequenceID, i, rule)
		}
	}
	return nil
}

func zoneByName(name string) Zone {
	for _, z := range AllZones {
		if z.String() == name {
			return z
		}
	}
	return ZoneTop
}

// replayCard applies a card's passive rules if the card currently sits
// face up on its owner's field. Cleared or face-down cards leave no
// effects.
func (e *Engine) replayCard(m *MatchState, playerID, cardID string, seq int) error {
	p, ok := m.PlayerByID(playerID)
	if !ok {
		return ruleErr(ErrSequenceIntegrity, "unknown player %q in play sequence", playerID)
	}
	_, fc, onField := m.ZonesFor(p.ID).FindCard(cardID)
	if !onField || fc.FaceDown {
		return nil
	}
	def, err := defOf(e.Catalog, cardID)
	if err != nil {
		return err
	}
	for i, rule := range def.Rules {
		if passiveTrigger(rule.Trigger) {
			e.emitRule(m, p.ID, cardID, seq, i, rule)
		}
	}
	return nil
}

// replaySearch re-emits effects for searched cards that landed face up
// on the field. Hand and deck movement happened at selection time.
func (e *Engine) replaySearch(m *MatchState, rec *PlayRecord) error {
	for _, id := range rec.Data.CardIDs {
		if err := e.replayCard(m, rec.PlayerID, id, rec.SequenceID); err != nil {
			return err
		}
	}
	return nil
}

// replaySetPower applies a persisted power override to specific cards.
func (e *Engine) replaySetPower(m *MatchState, rec *PlayRecord) error {
	target, ok := m.PlayerByID(rec.Data.TargetPlayerID)
	if !ok {
		return ruleErr(ErrSequenceIntegrity, "unknown target player %q in play sequence", rec.Data.TargetPlayerID)
	}
	ae := &ActiveEffect{
		EffectID:       effectID(rec.Data.SourceCard, rec.SequenceID, 0),
		Source:         rec.Data.SourceCard,
		SourcePlayerID: rec.PlayerID,
		Kind:           catalog.RuleSetPower,
		Target: EffectTarget{
			Scope:         catalog.ScopeSpecificCard,
			PlayerID:      target.ID,
			SpecificCards: rec.Data.Targets,
		},
		Value:     rec.Data.Value,
		IsEnabled: true,
		CreatedAt: rec.SequenceID,
	}
	target.FieldEffects.ActiveEffects = append(target.FieldEffects.ActiveEffects, ae)
	return nil
}

// canNeutralize checks the two shields an effect can carry.
func (e *Engine) canNeutralize(ae *ActiveEffect) bool {
	if ae.Unremovable {
		return false
	}
	def, err := e.Catalog.Get(ae.Source)
	if err == nil && def.ImmuneToNeutralization {
		return false
	}
	return true
}

// replayNeutralization disables effects sourced from specific cards.
// Only effects already on the table at the record's position are hit.
func (e *Engine) replayNeutralization(m *MatchState, rec *PlayRecord) error {
	for _, p := range m.Players {
		for _, ae := range p.FieldEffects.ActiveEffects {
			if !ae.IsEnabled || ae.CreatedAt >= rec.SequenceID {
				continue
			}
			if !contains(rec.Data.Targets, ae.Source) {
				continue
			}
			if !e.canNeutralize(ae) {
				continue
			}
			ae.disable(rec.Data.SourceCard, rec.SequenceID, "neutralized", rec.Data.NeutralizationID)
			p.FieldEffects.markDisabled(ae.Source)
		}
	}
	return nil
}

// applyZoneNeutralization disables every effect whose source currently
// sits in one of the targeted zones of the targeted player, regardless
// of when it was placed.
func (e *Engine) applyZoneNeutralization(m *MatchState, rec *PlayRecord) error {
	target, ok := m.PlayerByID(rec.Data.TargetPlayerID)
	if !ok {
		return ruleErr(ErrSequenceIntegrity, "unknown target player %q in play sequence", rec.Data.TargetPlayerID)
	}
	zones := m.ZonesFor(target.ID)
	inZone := func(cardID string) bool {
		z, _, ok := zones.FindCard(cardID)
		return ok && contains(rec.Data.Zones, z.String())
	}
	for _, p := range m.Players {
		for _, ae := range p.FieldEffects.ActiveEffects {
			if !ae.IsEnabled || ae.SourcePlayerID != target.ID || !inZone(ae.Source) {
				continue
			}
			if !e.canNeutralize(ae) {
				continue
			}
			ae.disable(rec.Data.SourceCard, rec.SequenceID, "zone neutralized", rec.Data.NeutralizationID)
			p.FieldEffects.markDisabled(ae.Source)
		}
	}
	return nil
}

// applyFieldFlags folds enabled non-power effects into zone restrictions,
// special flags and play restrictions.
func (e *Engine) applyFieldFlags(m *MatchState) {
	for _, p := range m.Players {
		for _, ae := range p.FieldEffects.ActiveEffects {
			if !ae.IsEnabled {
				continue
			}
			switch ae.Kind {
			case catalog.RuleZoneRestriction:
				for _, zn := range ae.Target.Zones {
					p.FieldEffects.Restriction(zoneByName(zn)).Deny(ae.Target.GameTypes)
				}
			case catalog.RuleSilenceOnSummon:
				p.FieldEffects.SpecialEffects[FlagSummonSilenced] = true
			case catalog.RuleZoneFreedom:
				p.FieldEffects.SpecialEffects[FlagZonePlacementFreedom] = true
			case catalog.RuleDisableComboBonus:
				p.FieldEffects.SpecialEffects[FlagComboBonusDisabled] = true
			case catalog.RuleForceSPPlay:
				p.FieldEffects.SpecialEffects[FlagForceSPPlay] = true
			case catalog.RuleVictoryPointMod:
				p.FieldEffects.VictoryPointModifiers += ae.Value
			case catalog.RulePreventPlay:
				for _, zn := range ae.Target.Zones {
					switch zn {
					case catalog.ZoneHelp:
						p.FieldEffects.PlayRestrictions["help"] = true
					case catalog.ZoneSP:
						p.FieldEffects.PlayRestrictions["sp"] = true
					}
				}
			}
		}
	}
}

// powerOf folds a player's enabled power effects over one face-up card.
// Boosts stack in table order, a later setPower overrides, nullification
// zeroes, and the result never goes negative.
func (fe *FieldEffects) powerOf(def *catalog.CardDef, zone Zone) int {
	power := def.BasePower
	overridden := false
	override := 0
	nullified := false
	for _, ae := range fe.ActiveEffects {
		if !ae.IsEnabled || !ae.Target.MatchesCard(def, zone) {
			continue
		}
		switch ae.Kind {
		case catalog.RulePowerBoost:
			power += ae.Value
		case catalog.RuleSetPower:
			overridden = true
			override = ae.Value
		case catalog.RulePowerNullification:
			nullified = true
		}
	}
	if overridden {
		power = override
	}
	if nullified {
		power = 0
	}
	if power < 0 {
		power = 0
	}
	return power
}

// computePowers fills CalculatedPowers and mirrors each value onto the
// field card. Face-down cards carry zero until revealed.
func (e *Engine) computePowers(m *MatchState) error {
	for _, p := range m.Players {
		zones := m.ZonesFor(p.ID)
		for _, zone := range AllZones {
			slot := zones.Slot(zone)
			for i := range *slot {
				fc := &(*slot)[i]
				if fc.FaceDown {
					fc.ValueOnField = 0
					continue
				}
				def, err := defOf(e.Catalog, fc.CardID)
				if err != nil {
					return err
				}
				power := 0
				if def.IsCharacter() {
					power = p.FieldEffects.powerOf(def, zone)
				}
				fc.ValueOnField = power
				p.FieldEffects.CalculatedPowers[fc.CardID] = power
			}
		}
	}
	return nil
}

// computeTotals derives each player's battle total: face-up battle zone
// powers plus the combo bonus, minus any total power nerfs against them.
func (e *Engine) computeTotals(m *MatchState) error {
	for _, p := range m.Players {
		zones := m.ZonesFor(p.ID)
		total := 0
		var lineup []*catalog.CardDef
		for _, zone := range BattleZones {
			fc, ok := zones.FaceUpAt(zone)
			if !ok {
				continue
			}
			def, err := defOf(e.Catalog, fc.CardID)
			if err != nil {
				return err
			}
			if !def.IsCharacter() {
				continue
			}
			total += fc.ValueOnField
			lineup = append(lineup, def)
		}
		if !p.FieldEffects.Flag(FlagComboBonusDisabled) {
			total += comboBonus(lineup)
		}
		for _, ae := range p.FieldEffects.ActiveEffects {
			if ae.IsEnabled && ae.Kind == catalog.RuleTotalPowerNerf {
				total -= ae.Value
			}
		}
		if total < 0 {
			total = 0
		}
		p.PlayerPoint = total
	}
	return nil
}
