package game

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// runSummonTriggers executes a freshly played card's onSummon rules.
// Non-interactive effects apply immediately and persist as APPLY_*
// records; the first effect needing a choice parks a pending selection
// and reports blocked=true so the dispatcher defers turn advance.
func (e *Engine) runSummonTriggers(m *MatchState, p *PlayerState, def *catalog.CardDef) (blocked bool, err error) {
	if p.FieldEffects.Flag(FlagSummonSilenced) {
		e.Logger.Debug("summon triggers silenced",
			zap.String("card", def.ID),
			zap.String("player", p.ID))
		return false, nil
	}

	for _, rule := range def.Rules {
		if rule.Trigger != catalog.TriggerOnSummon {
			continue
		}
		if !e.conditionMet(m, p.ID, rule.Condition) {
			continue
		}

		switch rule.Kind {
		case catalog.RuleDrawCards:
			drawn := m.drawCards(p, rule.Count)
			m.appendRecord(PlayRecord{
				PlayerID: p.ID,
				CardID:   def.ID,
				Action:   RecordDraw,
				Data:     RecordData{Count: len(drawn), SourceCard: def.ID},
			})
			e.pushEvent(m, EventCardsDrawn, p.ID, map[string]any{
				"count":      len(drawn),
				"sourceCard": def.ID,
			}, false)

		case catalog.RuleRandomDiscard:
			target := p
			if rule.Target.Scope == catalog.ScopeOpponent {
				target = m.Opponent(p.ID)
			}
			removed := m.randomDiscardFrom(target, rule.Count)
			m.appendRecord(PlayRecord{
				PlayerID: p.ID,
				CardID:   def.ID,
				Action:   RecordDiscard,
				Data: RecordData{
					Count:          len(removed),
					CardIDs:        removed,
					TargetPlayerID: target.ID,
					SourceCard:     def.ID,
				},
			})
			e.pushEvent(m, EventCardsDiscarded, "", map[string]any{
				"count":          len(removed),
				"targetPlayerId": target.ID,
				"sourceCard":     def.ID,
			}, false)

		case catalog.RuleSearchCard:
			sel := e.newDeckSearch(m, p, def.ID, rule)
			if sel.SelectCount == 0 {
				// Nothing eligible: put everything back and move on.
				m.returnToBottom(p, sel.SearchedCards)
				continue
			}
			e.parkSelection(m, sel)
			return true, nil

		case catalog.RuleNeutralizeEffect:
			if rule.RequiresSelection {
				sel := e.newFieldTarget(m, p, def.ID, rule)
				if sel.SelectCount == 0 {
					continue
				}
				e.parkSelection(m, sel)
				return true, nil
			}
			e.applyAutoNeutralization(m, p, def.ID, rule)

		case catalog.RuleSetPower:
			if rule.RequiresSelection {
				sel := e.newFieldTarget(m, p, def.ID, rule)
				if sel.SelectCount == 0 {
					continue
				}
				e.parkSelection(m, sel)
				return true, nil
			}
			// Non-interactive summon setPower is emitted during replay.

		default:
			// Flag-style rules surface through replay, not here.
		}
	}
	return false, nil
}

// parkSelection sets the pending selection and notifies both players.
func (e *Engine) parkSelection(m *MatchState, sel *Selection) {
	m.PendingSelection = sel
	e.pushEvent(m, EventSelectionRequired, "", map[string]any{
		"selectionId": sel.ID,
		"playerId":    sel.PlayerID,
		"type":        string(sel.Type),
		"selectCount": sel.SelectCount,
		"sourceCard":  sel.SourceCardID,
	}, false)
}

// applyAutoNeutralization persists a selection-free neutralization.
// Zone-scoped ones keep biting whatever lands in those zones later.
func (e *Engine) applyAutoNeutralization(m *MatchState, p *PlayerState, sourceCard string, rule catalog.Rule) {
	target := m.Opponent(p.ID)
	nid := uuid.NewString()
	m.NeutralizationHistory = append(m.NeutralizationHistory, NeutralizationRecord{
		ID:          nid,
		SequenceID:  m.nextSequenceID(),
		PlayerID:    p.ID,
		SourceCard:  sourceCard,
		TargetZones: rule.Target.Zones,
		CreatedAt:   e.Now(),
	})
	m.appendRecord(PlayRecord{
		PlayerID: p.ID,
		CardID:   sourceCard,
		Action:   RecordNeutralization,
		Data: RecordData{
			Zones:            rule.Target.Zones,
			TargetPlayerID:   target.ID,
			NeutralizationID: nid,
			SourceCard:       sourceCard,
		},
	})
	e.pushEvent(m, EventEffectNeutralized, "", map[string]any{
		"sourceCard":     sourceCard,
		"zones":          rule.Target.Zones,
		"targetPlayerId": target.ID,
	}, false)
}
