package game

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// SelectionType says what a pending selection chooses from.
type SelectionType string

const (
	SelectionDeckSearch  SelectionType = "deckSearch"
	SelectionFieldTarget SelectionType = "fieldTarget"
)

// Selection is an interactive choice blocking a match. It never times
// out; it persists until completed or the match ends.
type Selection struct {
	ID              string        `json:"id"`
	PlayerID        string        `json:"playerId"`
	Type            SelectionType `json:"type"`
	EligibleCardIDs []string      `json:"eligibleCardIds"`
	SelectCount     int           `json:"selectCount"`
	SourceCardID    string        `json:"sourceCardId"`
	TargetPlayerID  string        `json:"targetPlayerId,omitempty"`
	Rule            catalog.Rule  `json:"effect"`
	// SearchedCards holds the deck cards taken out for a search, in their
	// original top-down order. Unpicked ones go back to the bottom.
	SearchedCards []string  `json:"searchedCards,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// newDeckSearch lifts the top of the deck into a pending search. The
// cards leave the deck immediately and live in the selection until it
// completes.
func (e *Engine) newDeckSearch(m *MatchState, p *PlayerState, sourceCard string, rule catalog.Rule) *Selection {
	searched := m.takeTop(p, rule.SearchCount)
	var eligible []string
	for _, id := range searched {
		def, err := e.Catalog.Get(id)
		if err != nil {
			continue
		}
		if rule.Filter.Matches(def) {
			eligible = append(eligible, id)
		}
	}
	return &Selection{
		ID:              uuid.NewString(),
		PlayerID:        p.ID,
		Type:            SelectionDeckSearch,
		EligibleCardIDs: eligible,
		SelectCount:     min(rule.SelectCount, len(eligible)),
		SourceCardID:    sourceCard,
		Rule:            rule,
		SearchedCards:   searched,
		CreatedAt:       e.Now(),
	}
}

// newFieldTarget enumerates opponent field cards an effect may pick.
// Neutralization wants cards that carry effects and are not immune;
// setPower wants face-up characters.
func (e *Engine) newFieldTarget(m *MatchState, p *PlayerState, sourceCard string, rule catalog.Rule) *Selection {
	target := m.Opponent(p.ID)
	zones := m.ZonesFor(target.ID)
	scan := AllZones
	if len(rule.Target.Zones) > 0 {
		scan = nil
		for _, zn := range rule.Target.Zones {
			scan = append(scan, zoneByName(zn))
		}
	}
	var eligible []string
	for _, zone := range scan {
		slot := zones.Slot(zone)
		for _, fc := range *slot {
			if fc.FaceDown {
				continue
			}
			def, err := e.Catalog.Get(fc.CardID)
			if err != nil {
				continue
			}
			switch rule.Kind {
			case catalog.RuleNeutralizeEffect:
				if len(def.Rules) > 0 && !def.ImmuneToNeutralization {
					eligible = append(eligible, fc.CardID)
				}
			case catalog.RuleSetPower:
				if def.IsCharacter() {
					eligible = append(eligible, fc.CardID)
				}
			}
		}
	}
	count := rule.SelectCount
	if count == 0 {
		count = 1
	}
	return &Selection{
		ID:              uuid.NewString(),
		PlayerID:        p.ID,
		Type:            SelectionFieldTarget,
		EligibleCardIDs: eligible,
		SelectCount:     min(count, len(eligible)),
		SourceCardID:    sourceCard,
		TargetPlayerID:  target.ID,
		Rule:            rule,
		CreatedAt:       e.Now(),
	}
}

// validateSelection checks the chosen ids against the pending selection.
func (s *Selection) validateSelection(playerID string, selectionID string, chosen []string) error {
	if selectionID != s.ID {
		return ruleErr(ErrInvalidSelection, "selection %q is not pending", selectionID)
	}
	if playerID != s.PlayerID {
		return ruleErr(ErrWaitingForPlayer, "selection %q belongs to %q", s.ID, s.PlayerID)
	}
	if len(chosen) != s.SelectCount {
		return ruleErr(ErrInvalidSelection, "expected %d selections, got %d", s.SelectCount, len(chosen))
	}
	seen := make(map[string]bool, len(chosen))
	for _, id := range chosen {
		if seen[id] {
			return ruleErr(ErrInvalidSelection, "card %q selected twice", id)
		}
		seen[id] = true
		if !contains(s.EligibleCardIDs, id) {
			return ruleErr(ErrInvalidSelection, "card %q is not eligible", id)
		}
	}
	return nil
}

// CompleteSelection resolves the pending selection with the player's
// choices, persists the outcome to the play sequence, resimulates, and
// resumes the turn advance the triggering play deferred.
func (e *Engine) CompleteSelection(m *MatchState, playerID, selectionID string, chosen []string) error {
	sel := m.PendingSelection
	if sel == nil {
		return ruleErr(ErrInvalidSelection, "no selection pending")
	}
	if err := sel.validateSelection(playerID, selectionID, chosen); err != nil {
		return err
	}

	p, _ := m.PlayerByID(sel.PlayerID)
	switch sel.Type {
	case SelectionDeckSearch:
		if err := e.resolveDeckSearch(m, p, sel, chosen); err != nil {
			return err
		}
	case SelectionFieldTarget:
		e.resolveFieldTarget(m, p, sel, chosen)
	}

	m.PendingSelection = nil
	e.pushEvent(m, EventSelectionResolved, "", map[string]any{
		"selectionId": sel.ID,
		"cardIds":     chosen,
	}, false)

	if err := e.Simulate(m); err != nil {
		return err
	}
	return e.advanceAfterPlay(m, sel.PlayerID)
}

// resolveDeckSearch places the chosen cards and returns the rest to the
// bottom of the deck in their original order.
func (e *Engine) resolveDeckSearch(m *MatchState, p *PlayerState, sel *Selection, chosen []string) error {
	zones := m.ZonesFor(p.ID)
	dest := sel.Rule.Destination
	faceDown := false

	for _, id := range chosen {
		switch dest {
		case catalog.DestSPZone:
			if !zones.Occupied(ZoneSP) {
				zones.SP = append(zones.SP, FieldCard{CardID: id, FaceDown: true})
				faceDown = true
				continue
			}
			p.Hand = append(p.Hand, id)
		case catalog.DestHelpZone:
			if !zones.Occupied(ZoneHelp) {
				zones.Help = append(zones.Help, FieldCard{CardID: id})
				continue
			}
			p.Hand = append(p.Hand, id)
		case catalog.DestConditionalHelp:
			if !zones.Occupied(ZoneHelp) {
				zones.Help = append(zones.Help, FieldCard{CardID: id})
				continue
			}
			p.Hand = append(p.Hand, id)
		default:
			p.Hand = append(p.Hand, id)
		}
	}

	var rest []string
	for _, id := range sel.SearchedCards {
		if !contains(chosen, id) {
			rest = append(rest, id)
		}
	}
	m.returnToBottom(p, rest)

	m.appendRecord(PlayRecord{
		PlayerID: p.ID,
		CardID:   sel.SourceCardID,
		Action:   RecordSearch,
		Data: RecordData{
			CardIDs:       chosen,
			Destination:   dest,
			SearchedCount: len(sel.SearchedCards),
			SourceCard:    sel.SourceCardID,
			FaceDown:      faceDown,
		},
	})
	return nil
}

// resolveFieldTarget persists a neutralization or power override against
// the chosen opponent cards.
func (e *Engine) resolveFieldTarget(m *MatchState, p *PlayerState, sel *Selection, chosen []string) {
	switch sel.Rule.Kind {
	case catalog.RuleNeutralizeEffect:
		nid := uuid.NewString()
		m.NeutralizationHistory = append(m.NeutralizationHistory, NeutralizationRecord{
			ID:          nid,
			SequenceID:  m.nextSequenceID(),
			PlayerID:    p.ID,
			SourceCard:  sel.SourceCardID,
			TargetCards: chosen,
			CreatedAt:   e.Now(),
		})
		m.appendRecord(PlayRecord{
			PlayerID: p.ID,
			CardID:   sel.SourceCardID,
			Action:   RecordNeutralization,
			Data: RecordData{
				Targets:          chosen,
				TargetPlayerID:   sel.TargetPlayerID,
				NeutralizationID: nid,
				SourceCard:       sel.SourceCardID,
			},
		})
		e.pushEvent(m, EventEffectNeutralized, "", map[string]any{
			"sourceCard": sel.SourceCardID,
			"targets":    chosen,
		}, false)
	case catalog.RuleSetPower:
		m.appendRecord(PlayRecord{
			PlayerID: p.ID,
			CardID:   sel.SourceCardID,
			Action:   RecordSetPower,
			Data: RecordData{
				Targets:        chosen,
				TargetPlayerID: sel.TargetPlayerID,
				Value:          sel.Rule.Value,
				SourceCard:     sel.SourceCardID,
			},
		})
	default:
		e.Logger.Warn("unexpected selection rule kind",
			zap.String("kind", string(sel.Rule.Kind)),
			zap.String("selection", sel.ID))
	}
}
