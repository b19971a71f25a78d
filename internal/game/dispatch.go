package game

import (
	"go.uber.org/zap"

	"revreb/internal/catalog"
)

// ProcessAction runs one player action against the match. Validation
// happens before any mutation: a rejected action leaves everything but
// the event list untouched. Fatal integrity errors end the match with
// the state left inspectable.
func (e *Engine) ProcessAction(m *MatchState, playerID string, a Action) error {
	err := e.dispatch(m, playerID, a)
	if err != nil {
		e.pushError(m, playerID, err)
		if KindOf(err).Fatal() {
			m.Phase = PhaseGameEnd
			e.pushEvent(m, EventGameEnd, "", map[string]any{"reason": string(KindOf(err))}, false)
			e.Logger.Error("match aborted",
				zap.String("match", m.ID),
				zap.Error(err))
		}
	}
	return err
}

func (e *Engine) dispatch(m *MatchState, playerID string, a Action) error {
	if _, ok := m.PlayerByID(playerID); !ok {
		return ruleErr(ErrWaitingForPlayer, "player %q is not in this match", playerID)
	}
	if m.Phase == PhaseGameEnd {
		return ruleErr(ErrInvalidPhaseForAct, "match is over")
	}
	if m.PendingSelection != nil && a.Type != ActionSelectCard {
		return ruleErr(ErrSelectionPending, "selection %q must be completed first", m.PendingSelection.ID)
	}

	switch a.Type {
	case ActionSelectCard:
		return e.CompleteSelection(m, playerID, a.SelectionID, a.SelectedCardIDs)
	case ActionAcknowledgeEvents:
		return e.AcknowledgeEvents(m, playerID, a.EventIDs)
	case ActionStartReady:
		return e.handleStartReady(m, playerID, a.Redraw)
	case ActionPlayCard:
		return e.handlePlay(m, playerID, a, false)
	case ActionPlayCardBack:
		return e.handlePlay(m, playerID, a, true)
	default:
		return ruleErr(ErrInvalidPhaseForAct, "unknown action %q", a.Type)
	}
}

// handleStartReady takes a player's mulligan decision and, once both
// players are in, opens the first turn.
func (e *Engine) handleStartReady(m *MatchState, playerID string, redraw bool) error {
	if m.Phase != PhaseStartRedraw {
		return ruleErr(ErrInvalidPhaseForAct, "startReady is only valid during %s", PhaseStartRedraw)
	}
	p, _ := m.PlayerByID(playerID)
	if p.Ready {
		return ruleErr(ErrInvalidPhaseForAct, "player %q is already ready", playerID)
	}
	if redraw && !p.RedrawUsed {
		m.redrawHand(p)
		p.RedrawUsed = true
	}
	p.Ready = true

	for _, other := range m.Players {
		if !other.Ready {
			return nil
		}
	}
	return e.beginMatch(m)
}

// beginMatch picks the first player, seats both leaders, and opens the
// first draw phase.
func (e *Engine) beginMatch(m *MatchState) error {
	first := e.ForceFirstPlayer
	if first < 0 {
		p0, _ := e.Catalog.Get(m.Players[0].CurrentLeader())
		p1, _ := e.Catalog.Get(m.Players[1].CurrentLeader())
		switch {
		case p0 != nil && p1 != nil && p0.BasePower > p1.BasePower:
			first = 0
		case p0 != nil && p1 != nil && p1.BasePower > p0.BasePower:
			first = 1
		default:
			first = m.rng().Intn(2)
		}
	}
	m.FirstPlayer = m.Players[first].ID
	m.CurrentTurn = 0
	m.CurrentPlayer = m.FirstPlayer

	for _, p := range m.Players {
		leader := p.CurrentLeader()
		m.ZonesFor(p.ID).Leader = leader
		m.appendRecord(PlayRecord{
			PlayerID: p.ID,
			CardID:   leader,
			Action:   RecordPlayLeader,
		})
	}
	if err := e.Simulate(m); err != nil {
		return err
	}

	e.pushEvent(m, EventGameStarted, "", map[string]any{
		"firstPlayer": m.FirstPlayer,
	}, false)
	e.openDrawPhase(m)
	return nil
}

// openDrawPhase deals the turn draw and gates main phase on the current
// player acknowledging it.
func (e *Engine) openDrawPhase(m *MatchState) {
	m.Phase = PhaseDraw
	p, _ := m.PlayerByID(m.CurrentPlayer)
	drawn := m.drawCards(p, 1)
	e.pushEvent(m, EventPhaseChanged, "", map[string]any{"phase": m.Phase.String()}, false)
	e.pushEvent(m, EventDrawPhaseComplete, m.CurrentPlayer, map[string]any{
		"drawn": len(drawn),
	}, true)
}

// resumeAfterAck moves draw phase into main phase once the current
// player has acknowledged the turn draw.
func (e *Engine) resumeAfterAck(m *MatchState, playerID string) error {
	if m.Phase != PhaseDraw || playerID != m.CurrentPlayer {
		return nil
	}
	if m.pendingAckFor(playerID) {
		return nil
	}
	m.Phase = PhaseMain
	e.pushEvent(m, EventPhaseChanged, "", map[string]any{"phase": m.Phase.String()}, false)

	p, _ := m.PlayerByID(m.CurrentPlayer)
	if len(p.Hand) == 0 || m.allZonesOccupied(p) {
		// Nothing this player can do; the turn passes on its own.
		return e.advanceAfterPlay(m, p.ID)
	}
	return nil
}

func (m *MatchState) allZonesOccupied(p *PlayerState) bool {
	z := m.ZonesFor(p.ID)
	for _, zone := range AllZones {
		if !z.Occupied(zone) {
			return false
		}
	}
	return true
}

// handlePlay validates and performs a card placement.
func (e *Engine) handlePlay(m *MatchState, playerID string, a Action, faceDown bool) error {
	if m.Phase != PhaseMain && m.Phase != PhaseSP {
		return ruleErr(ErrPhaseRestriction, "cannot play cards during %s", m.Phase)
	}
	if playerID != m.CurrentPlayer {
		return ruleErr(ErrWaitingForPlayer, "it is %q's turn", m.CurrentPlayer)
	}

	zone, ok := ZoneFromFieldIndex(a.FieldIndex)
	if !ok {
		return ruleErr(ErrInvalidPosition, "fieldIndex %d out of range", a.FieldIndex)
	}
	p, _ := m.PlayerByID(playerID)
	if a.CardIndex < 0 || a.CardIndex >= len(p.Hand) {
		return ruleErr(ErrInvalidCardIndex, "cardIndex %d out of range for hand of %d", a.CardIndex, len(p.Hand))
	}
	cardID := p.Hand[a.CardIndex]
	def, err := e.Catalog.Get(cardID)
	if err != nil {
		return ruleErr(ErrCardNotFound, "card %q missing from catalog", cardID)
	}

	if m.Phase == PhaseSP && zone != ZoneSP {
		return ruleErr(ErrSPPhaseRestriction, "only sp zone placements are allowed during %s", m.Phase)
	}

	if faceDown {
		if m.Phase == PhaseMain && zone == ZoneSP {
			return ruleErr(ErrSPPhaseRestriction, "face-down sp placement is not allowed during %s", m.Phase)
		}
		if err := validateFaceDown(m, p, zone); err != nil {
			return err
		}
	} else {
		if err := e.validateFaceUp(m, p, def, zone); err != nil {
			return err
		}
	}

	p.RemoveFromHand(a.CardIndex)
	slot := m.ZonesFor(p.ID).Slot(zone)
	*slot = append(*slot, FieldCard{CardID: cardID, FaceDown: faceDown})

	m.appendRecord(PlayRecord{
		PlayerID: p.ID,
		CardID:   cardID,
		Action:   RecordPlayCard,
		Zone:     zone,
		HasZone:  true,
		Data:     RecordData{FaceDown: faceDown},
	})

	if faceDown {
		e.pushEvent(m, EventCardPlayedBack, "", map[string]any{
			"playerId": p.ID,
			"zone":     zone.String(),
		}, false)
	} else {
		e.pushEvent(m, EventCardPlayed, "", map[string]any{
			"playerId": p.ID,
			"cardId":   cardID,
			"zone":     zone.String(),
		}, false)
	}

	if err := e.Simulate(m); err != nil {
		return err
	}

	if !faceDown {
		blocked, err := e.runSummonTriggers(m, p, def)
		if err != nil {
			return err
		}
		if blocked {
			return nil
		}
		if err := e.Simulate(m); err != nil {
			return err
		}
	}

	return e.advanceAfterPlay(m, p.ID)
}

// validateFaceUp applies the face-up placement rules in their checking
// order: card type versus zone, leader compatibility, occupancy, play
// restrictions.
func (e *Engine) validateFaceUp(m *MatchState, p *PlayerState, def *catalog.CardDef, zone Zone) error {
	switch def.Kind {
	case catalog.KindCharacter:
		if !zone.IsBattle() {
			return ruleErr(ErrCardTypeZone, "character %q cannot go to %s", def.ID, zone)
		}
	case catalog.KindHelp:
		if zone != ZoneHelp {
			return ruleErr(ErrCardTypeZone, "help card %q only goes to %s", def.ID, ZoneHelp)
		}
	case catalog.KindSP:
		if zone != ZoneSP {
			return ruleErr(ErrCardTypeZone, "sp card %q only goes to %s", def.ID, ZoneSP)
		}
		if m.Phase != PhaseSP {
			return ruleErr(ErrSPPhaseRestriction, "sp cards play face up only during %s", PhaseSP)
		}
	default:
		return ruleErr(ErrCardTypeZone, "%s card %q cannot be played from hand", def.Kind, def.ID)
	}

	if !p.FieldEffects.Flag(FlagZonePlacementFreedom) {
		ok, denied := p.FieldEffects.Restriction(zone).Check(def.GameType)
		if !ok {
			if denied {
				return ruleErr(ErrFieldEffect, "%s is blocked for %s cards", zone, def.GameType)
			}
			return ruleErr(ErrZoneCompatibility, "leader does not allow %s cards in %s", def.GameType, zone)
		}
	}

	if zone.IsBattle() {
		if _, taken := m.ZonesFor(p.ID).FaceUpAt(zone); taken {
			return ruleErr(ErrZoneOccupied, "%s already holds a face-up card", zone)
		}
	} else if m.ZonesFor(p.ID).Occupied(zone) {
		return ruleErr(ErrZoneOccupied, "%s already holds a card", zone)
	}

	switch {
	case zone == ZoneHelp && p.FieldEffects.PlayRestrictions["help"]:
		return ruleErr(ErrPreventPlay, "help plays are blocked")
	case zone == ZoneSP && p.FieldEffects.PlayRestrictions["sp"]:
		return ruleErr(ErrPreventPlay, "sp plays are blocked")
	}
	return nil
}

// validateFaceDown enforces zone capacity for face-down placements.
// They skip the face-up rules, but help and sp still hold a single card
// and a battle zone takes only one face-down card.
func validateFaceDown(m *MatchState, p *PlayerState, zone Zone) error {
	z := m.ZonesFor(p.ID)
	if !zone.IsBattle() {
		if z.Occupied(zone) {
			return ruleErr(ErrZoneOccupied, "%s already holds a card", zone)
		}
		return nil
	}
	if _, taken := z.FaceDownAt(zone); taken {
		return ruleErr(ErrZoneOccupied, "%s already holds a face-down card", zone)
	}
	return nil
}

// advanceAfterPlay decides what follows a completed play: enter sp
// phase, conclude it into battle, or hand the turn over.
func (e *Engine) advanceAfterPlay(m *MatchState, playerID string) error {
	switch m.Phase {
	case PhaseMain:
		if m.mainPhaseComplete() {
			return e.enterSPPhase(m)
		}
		e.advanceTurn(m)
	case PhaseSP:
		if m.spPhaseConcluded() {
			return e.resolveBattle(m)
		}
		return e.rotateSPTurn(m)
	}
	return nil
}

// mainPhaseComplete requires both players to have filled the three
// battle zones and the help zone.
func (m *MatchState) mainPhaseComplete() bool {
	for _, p := range m.Players {
		z := m.ZonesFor(p.ID)
		for _, zone := range []Zone{ZoneTop, ZoneLeft, ZoneRight, ZoneHelp} {
			if !z.Occupied(zone) {
				return false
			}
		}
	}
	return true
}

func (e *Engine) enterSPPhase(m *MatchState) error {
	m.Phase = PhaseSP
	e.pushEvent(m, EventPhaseChanged, "", map[string]any{"phase": m.Phase.String()}, false)
	if m.spPhaseConcluded() {
		return e.resolveBattle(m)
	}
	return e.rotateSPTurn(m)
}

// mustSkipSP reports whether the player has no legal sp-phase move.
// A forced player may play any card; otherwise an sp card is needed.
func (e *Engine) mustSkipSP(m *MatchState, p *PlayerState) bool {
	if m.ZonesFor(p.ID).Occupied(ZoneSP) {
		return true
	}
	if len(p.Hand) == 0 {
		return true
	}
	if p.FieldEffects.Flag(FlagForceSPPlay) {
		return false
	}
	for _, id := range p.Hand {
		if def, err := e.Catalog.Get(id); err == nil && def.Kind == catalog.KindSP {
			return false
		}
	}
	return true
}

func (m *MatchState) spPhaseConcluded() bool {
	filled := 0
	for _, p := range m.Players {
		if m.ZonesFor(p.ID).Occupied(ZoneSP) {
			filled++
		}
	}
	return filled == len(m.Players)
}

// rotateSPTurn hands sp phase to a player who can still act. When
// neither can, the phase concludes into battle.
func (e *Engine) rotateSPTurn(m *MatchState) error {
	cur, _ := m.PlayerByID(m.CurrentPlayer)
	opp := m.Opponent(m.CurrentPlayer)
	switch {
	case !e.mustSkipSP(m, opp):
		m.CurrentPlayer = opp.ID
	case !e.mustSkipSP(m, cur):
		// Current player keeps acting.
	default:
		return e.resolveBattle(m)
	}
	return nil
}

// advanceTurn starts the next turn: the first player acts on even turns,
// the other on odd ones.
func (e *Engine) advanceTurn(m *MatchState) {
	m.CurrentTurn++
	other := m.Opponent(m.FirstPlayer)
	if m.CurrentTurn%2 == 0 {
		m.CurrentPlayer = m.FirstPlayer
	} else {
		m.CurrentPlayer = other.ID
	}
	e.pushEvent(m, EventTurnChanged, "", map[string]any{
		"turn":          m.CurrentTurn,
		"currentPlayer": m.CurrentPlayer,
	}, false)
	e.openDrawPhase(m)
}

// NextRound advances both leaders after a concluded leader battle and
// opens the next round's first turn.
func (e *Engine) NextRound(m *MatchState) error {
	if m.Phase != PhaseEndLeaderBattle {
		return ruleErr(ErrInvalidPhaseForAct, "nextRound is only valid during %s", PhaseEndLeaderBattle)
	}
	for _, p := range m.Players {
		p.CurrentLeaderIndex++
		leader := p.CurrentLeader()
		m.ZonesFor(p.ID).Leader = leader
		m.appendRecord(PlayRecord{
			PlayerID: p.ID,
			CardID:   leader,
			Action:   RecordPlayLeader,
		})
		e.pushEvent(m, EventLeaderChanged, "", map[string]any{
			"playerId": p.ID,
			"leader":   leader,
		}, false)
	}
	if err := e.Simulate(m); err != nil {
		return err
	}
	e.advanceTurn(m)
	return nil
}
