package game

import "time"

// Event types pushed to clients. Rejected actions are pushed as
// ERROR_<kind> events, typed after the rule error kind.
const (
	EventGameStarted       = "GAME_STARTED"
	EventCardPlayed        = "CARD_PLAYED"
	EventCardPlayedBack    = "CARD_PLAYED_FACE_DOWN"
	EventLeaderChanged     = "LEADER_CHANGED"
	EventPhaseChanged      = "PHASE_CHANGED"
	EventTurnChanged       = "TURN_CHANGED"
	EventDrawPhaseComplete = "DRAW_PHASE_COMPLETE"
	EventCardsDrawn        = "CARDS_DRAWN"
	EventCardsDiscarded    = "CARDS_DISCARDED"
	EventSelectionRequired = "CARD_SELECTION_REQUIRED"
	EventSelectionResolved = "CARD_SELECTION_RESOLVED"
	EventEffectNeutralized = "EFFECT_NEUTRALIZED"
	EventBattleResolved    = "BATTLE_RESOLVED"
	EventVictoryPoints     = "VICTORY_POINTS_AWARDED"
	EventGameEnd           = "GAME_END"
)

// errorEventType builds the event type for a rejected action.
func errorEventType(kind ErrorKind) string {
	return "ERROR_" + string(kind)
}

// eventTTL is how long an event stays relevant to a polling client.
const eventTTL = 3 * time.Second

// Event is a transient notification. Events requiring acknowledgement
// gate match progress until the addressed player acks them.
type Event struct {
	ID          int            `json:"id"`
	Type        string         `json:"type"`
	PlayerID    string         `json:"playerId,omitempty"` // empty means both players see it
	Payload     map[string]any `json:"payload,omitempty"`
	RequiresAck bool           `json:"requiresAck"`
	Acked       bool           `json:"acked"`
	CreatedAt   time.Time      `json:"createdAt"`
}

func (e *Event) expired(now time.Time) bool {
	return now.Sub(e.CreatedAt) > eventTTL
}

// pushEvent appends an event with a fresh id.
func (e *Engine) pushEvent(m *MatchState, typ, playerID string, payload map[string]any, requiresAck bool) *Event {
	m.NextEventID++
	ev := Event{
		ID:          m.NextEventID,
		Type:        typ,
		PlayerID:    playerID,
		Payload:     payload,
		RequiresAck: requiresAck,
		CreatedAt:   e.Now(),
	}
	m.Events = append(m.Events, ev)
	return &m.Events[len(m.Events)-1]
}

// pushError records a rejected action as an event. Rejections never touch
// match state beyond the event list.
func (e *Engine) pushError(m *MatchState, playerID string, err error) {
	e.pushEvent(m, errorEventType(KindOf(err)), playerID, map[string]any{
		"message": err.Error(),
	}, false)
}

// purgeEvents drops events no client still needs: expired ack-free
// events, and ack-requiring events that are both acked and expired.
func (e *Engine) purgeEvents(m *MatchState) {
	now := e.Now()
	kept := m.Events[:0]
	for _, ev := range m.Events {
		drop := ev.expired(now) && (!ev.RequiresAck || ev.Acked)
		if !drop {
			kept = append(kept, ev)
		}
	}
	m.Events = kept
}

// AcknowledgeEvents marks ack-requiring events addressed to the player
// as acked and resumes any phase progress gated on them. An empty id
// list acks everything addressed to the player.
func (e *Engine) AcknowledgeEvents(m *MatchState, playerID string, eventIDs []int) error {
	if _, ok := m.PlayerByID(playerID); !ok {
		return ruleErr(ErrInvalidSelection, "unknown player %q", playerID)
	}
	wanted := func(id int) bool {
		if len(eventIDs) == 0 {
			return true
		}
		for _, want := range eventIDs {
			if want == id {
				return true
			}
		}
		return false
	}
	for i := range m.Events {
		ev := &m.Events[i]
		if ev.RequiresAck && !ev.Acked && wanted(ev.ID) && (ev.PlayerID == "" || ev.PlayerID == playerID) {
			ev.Acked = true
		}
	}
	e.purgeEvents(m)
	return e.resumeAfterAck(m, playerID)
}

// pendingAckFor reports whether an unacked ack-requiring event blocks
// the player.
func (m *MatchState) pendingAckFor(playerID string) bool {
	for i := range m.Events {
		ev := &m.Events[i]
		if ev.RequiresAck && !ev.Acked && (ev.PlayerID == "" || ev.PlayerID == playerID) {
			return true
		}
	}
	return false
}
