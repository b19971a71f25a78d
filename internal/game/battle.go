package game

import (
	"sort"

	"revreb/internal/catalog"
)

// WinnerDraw marks a finished match without a winner.
const WinnerDraw = "draw"

// resolveBattle runs the end-of-round battle: reveal sp cards, fire
// their pre-total effects in priority order, score both players, award
// victory points, and either finish the match or park it for the next
// round.
func (e *Engine) resolveBattle(m *MatchState) error {
	m.Phase = PhaseBattle
	e.pushEvent(m, EventPhaseChanged, "", map[string]any{"phase": m.Phase.String()}, false)

	for _, p := range m.Players {
		z := m.ZonesFor(p.ID)
		for i := range z.SP {
			z.SP[i].FaceDown = false
		}
	}
	if err := e.Simulate(m); err != nil {
		return err
	}

	if err := e.runBeforeCombo(m); err != nil {
		return err
	}
	if err := e.Simulate(m); err != nil {
		return err
	}

	p0, p1 := m.Players[0], m.Players[1]
	delta := p0.PlayerPoint - p1.PlayerPoint
	var roundWinner *PlayerState
	switch {
	case delta > 0:
		roundWinner = p0
	case delta < 0:
		roundWinner = p1
		delta = -delta
	}
	if roundWinner != nil {
		delta += roundWinner.FieldEffects.VictoryPointModifiers
		if delta < 0 {
			delta = 0
		}
		roundWinner.VictoryPoints += delta
		e.pushEvent(m, EventVictoryPoints, "", map[string]any{
			"playerId": roundWinner.ID,
			"points":   delta,
		}, false)
	}
	e.pushEvent(m, EventBattleResolved, "", map[string]any{
		"totals": map[string]int{p0.ID: p0.PlayerPoint, p1.ID: p1.PlayerPoint},
	}, false)

	for _, p := range m.Players {
		removed := m.ZonesFor(p.ID).Clear(BattleZones...)
		p.DiscardPile = append(p.DiscardPile, removed...)
		p.PlayerPoint = 0
	}
	if err := e.Simulate(m); err != nil {
		return err
	}

	for _, p := range m.Players {
		if p.VictoryPoints >= VictoryPointTarget {
			e.endGame(m, p.ID)
			return nil
		}
	}
	if p0.OnLastLeader() || p1.OnLastLeader() {
		switch {
		case p0.VictoryPoints > p1.VictoryPoints:
			e.endGame(m, p0.ID)
		case p1.VictoryPoints > p0.VictoryPoints:
			e.endGame(m, p1.ID)
		default:
			e.endGame(m, WinnerDraw)
		}
		return nil
	}

	m.Phase = PhaseEndLeaderBattle
	e.pushEvent(m, EventPhaseChanged, "", map[string]any{"phase": m.Phase.String()}, false)
	return nil
}

// VictoryPointTarget ends the match outright when reached.
const VictoryPointTarget = 50

func (e *Engine) endGame(m *MatchState, winner string) {
	m.Phase = PhaseGameEnd
	m.Winner = winner
	e.pushEvent(m, EventGameEnd, "", map[string]any{"winner": winner}, false)
}

// spPriority orders sp effect execution: higher current-leader base
// power first, first player on ties.
type spAct struct {
	owner    *PlayerState
	def      *catalog.CardDef
	priority int
	isFirst  bool
}

// runBeforeCombo executes revealed sp cards' pre-total effects. Their
// outcomes persist as records so the following simulation sees them.
func (e *Engine) runBeforeCombo(m *MatchState) error {
	var acts []spAct
	for _, p := range m.Players {
		fc, ok := m.ZonesFor(p.ID).CardAt(ZoneSP)
		if !ok || fc.FaceDown {
			continue
		}
		def, err := e.Catalog.Get(fc.CardID)
		if err != nil {
			continue
		}
		if e.cardNeutralized(m, p.ID, def) {
			continue
		}
		prio := 0
		if leader, err := e.Catalog.Get(p.CurrentLeader()); err == nil {
			prio = leader.BasePower
		}
		acts = append(acts, spAct{
			owner:    p,
			def:      def,
			priority: prio,
			isFirst:  p.ID == m.FirstPlayer,
		})
	}
	sort.SliceStable(acts, func(i, j int) bool {
		if acts[i].priority != acts[j].priority {
			return acts[i].priority > acts[j].priority
		}
		return acts[i].isFirst
	})

	for _, act := range acts {
		for _, rule := range act.def.Rules {
			if rule.Trigger != catalog.TriggerBeforeCombo {
				continue
			}
			if !e.conditionMet(m, act.owner.ID, rule.Condition) {
				continue
			}
			switch rule.Kind {
			case catalog.RuleSetPower:
				e.recordBattleSetPower(m, act.owner, act.def.ID, rule)
			case catalog.RuleDrawCards:
				drawn := m.drawCards(act.owner, rule.Count)
				m.appendRecord(PlayRecord{
					PlayerID: act.owner.ID,
					CardID:   act.def.ID,
					Action:   RecordDraw,
					Data:     RecordData{Count: len(drawn), SourceCard: act.def.ID},
				})
			}
		}
	}
	return nil
}

// recordBattleSetPower resolves a battle-time power override against the
// cards currently matching its target and persists the outcome.
func (e *Engine) recordBattleSetPower(m *MatchState, owner *PlayerState, sourceCard string, rule catalog.Rule) {
	for _, target := range m.affectedPlayer(owner.ID, rule.Target.Scope) {
		if target == nil {
			continue
		}
		var hit []string
		zones := m.ZonesFor(target.ID)
		for _, zone := range AllZones {
			slot := zones.Slot(zone)
			for _, fc := range *slot {
				if fc.FaceDown {
					continue
				}
				def, err := e.Catalog.Get(fc.CardID)
				if err != nil || !def.IsCharacter() {
					continue
				}
				matcher := EffectTarget{
					Scope:     rule.Target.Scope,
					Zones:     rule.Target.Zones,
					GameTypes: rule.Target.GameTypes,
					Traits:    rule.Target.Traits,
				}
				if matcher.MatchesCard(def, zone) {
					hit = append(hit, fc.CardID)
				}
			}
		}
		if len(hit) == 0 {
			continue
		}
		m.appendRecord(PlayRecord{
			PlayerID: owner.ID,
			CardID:   sourceCard,
			Action:   RecordSetPower,
			Data: RecordData{
				Targets:        hit,
				TargetPlayerID: target.ID,
				Value:          rule.Value,
				SourceCard:     sourceCard,
			},
		})
	}
}

// cardNeutralized reports whether an earlier neutralization disables the
// card's effects where it currently sits.
func (e *Engine) cardNeutralized(m *MatchState, ownerID string, def *catalog.CardDef) bool {
	if def.ImmuneToNeutralization {
		return false
	}
	zone, _, onField := m.ZonesFor(ownerID).FindCard(def.ID)
	for i := range m.PlaySequence {
		rec := &m.PlaySequence[i]
		if rec.Action != RecordNeutralization {
			continue
		}
		if contains(rec.Data.Targets, def.ID) {
			return true
		}
		if onField && rec.Data.TargetPlayerID == ownerID && contains(rec.Data.Zones, zone.String()) {
			return true
		}
	}
	return false
}
