package game

import "time"

// FieldCardView is a FieldCard as one viewer may see it. Face-down cards
// belonging to the opponent keep their id to themselves.
type FieldCardView struct {
	CardID       string `json:"cardId,omitempty"`
	FaceDown     bool   `json:"faceDown"`
	ValueOnField int    `json:"valueOnField"`
}

// ZonesView is one player's field as projected for a viewer.
type ZonesView struct {
	Leader string          `json:"leader"`
	Top    []FieldCardView `json:"top"`
	Left   []FieldCardView `json:"left"`
	Right  []FieldCardView `json:"right"`
	Help   []FieldCardView `json:"help"`
	SP     []FieldCardView `json:"sp"`
}

// PlayerView is a player's state as projected for a viewer. The hand is
// only present for the viewer's own seat; decks show counts only.
type PlayerView struct {
	ID                 string        `json:"id"`
	Name               string        `json:"name"`
	Hand               []string      `json:"hand,omitempty"`
	HandCount          int           `json:"handCount"`
	DeckCount          int           `json:"deckCount"`
	DiscardPile        []string      `json:"discardPile"`
	LeaderList         []string      `json:"leaderList"`
	CurrentLeaderIndex int           `json:"currentLeaderIndex"`
	VictoryPoints      int           `json:"victoryPoints"`
	PlayerPoint        int           `json:"playerPoint"`
	Ready              bool          `json:"ready"`
	FieldEffects       *FieldEffects `json:"fieldEffects"`
	Zones              ZonesView     `json:"zones"`
}

// SelectionView shows that a selection is pending. Eligible ids are
// revealed only to the selecting player.
type SelectionView struct {
	ID              string        `json:"id"`
	PlayerID        string        `json:"playerId"`
	Type            SelectionType `json:"type"`
	SelectCount     int           `json:"selectCount"`
	SourceCardID    string        `json:"sourceCardId"`
	EligibleCardIDs []string      `json:"eligibleCardIds,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
}

// MatchView is the scrubbed match state sent to one player.
type MatchView struct {
	ID               string         `json:"id"`
	Phase            Phase          `json:"phase"`
	CurrentTurn      int            `json:"currentTurn"`
	CurrentPlayer    string         `json:"currentPlayer"`
	FirstPlayer      string         `json:"firstPlayer"`
	Winner           string         `json:"winner,omitempty"`
	You              *PlayerView    `json:"you"`
	Opponent         *PlayerView    `json:"opponent"`
	Events           []Event        `json:"events"`
	PendingSelection *SelectionView `json:"pendingSelection,omitempty"`
}

// Project builds the view of a match for one player. All hidden
// information scrubbing lives here; nothing else may serialize match
// state for a client.
func (e *Engine) Project(m *MatchState, viewerID string) (*MatchView, error) {
	viewer, ok := m.PlayerByID(viewerID)
	if !ok {
		return nil, ruleErr(ErrWaitingForPlayer, "player %q is not in this match", viewerID)
	}
	opp := m.Opponent(viewerID)

	view := &MatchView{
		ID:            m.ID,
		Phase:         m.Phase,
		CurrentTurn:   m.CurrentTurn,
		CurrentPlayer: m.CurrentPlayer,
		FirstPlayer:   m.FirstPlayer,
		Winner:        m.Winner,
		You:           projectPlayer(m, viewer, true),
		Opponent:      projectPlayer(m, opp, false),
		Events:        e.visibleEvents(m, viewerID),
	}

	if sel := m.PendingSelection; sel != nil {
		sv := &SelectionView{
			ID:           sel.ID,
			PlayerID:     sel.PlayerID,
			Type:         sel.Type,
			SelectCount:  sel.SelectCount,
			SourceCardID: sel.SourceCardID,
			CreatedAt:    sel.CreatedAt,
		}
		if sel.PlayerID == viewerID {
			sv.EligibleCardIDs = append([]string(nil), sel.EligibleCardIDs...)
		}
		view.PendingSelection = sv
	}
	return view, nil
}

func projectPlayer(m *MatchState, p *PlayerState, own bool) *PlayerView {
	pv := &PlayerView{
		ID:                 p.ID,
		Name:               p.Name,
		HandCount:          len(p.Hand),
		DeckCount:          len(p.MainDeck),
		DiscardPile:        append([]string(nil), p.DiscardPile...),
		LeaderList:         append([]string(nil), p.LeaderList...),
		CurrentLeaderIndex: p.CurrentLeaderIndex,
		VictoryPoints:      p.VictoryPoints,
		PlayerPoint:        p.PlayerPoint,
		Ready:              p.Ready,
		FieldEffects:       p.FieldEffects,
	}
	if own {
		pv.Hand = append([]string(nil), p.Hand...)
	}

	z := m.ZonesFor(p.ID)
	pv.Zones = ZonesView{
		Leader: z.Leader,
		Top:    projectCards(z.Top, own),
		Left:   projectCards(z.Left, own),
		Right:  projectCards(z.Right, own),
		Help:   projectCards(z.Help, own),
		SP:     projectCards(z.SP, own),
	}
	return pv
}

// projectCards hides face-down card ids from the opponent.
func projectCards(cards []FieldCard, own bool) []FieldCardView {
	views := make([]FieldCardView, 0, len(cards))
	for _, fc := range cards {
		v := FieldCardView{
			CardID:       fc.CardID,
			FaceDown:     fc.FaceDown,
			ValueOnField: fc.ValueOnField,
		}
		if fc.FaceDown && !own {
			v.CardID = ""
		}
		views = append(views, v)
	}
	return views
}

// visibleEvents filters the event list down to what the viewer should
// still see: unexpired, unacknowledged, addressed to them or to both.
func (e *Engine) visibleEvents(m *MatchState, viewerID string) []Event {
	now := e.Now()
	var out []Event
	for _, ev := range m.Events {
		if ev.Acked || ev.expired(now) {
			continue
		}
		if ev.PlayerID != "" && ev.PlayerID != viewerID {
			continue
		}
		out = append(out, ev)
	}
	return out
}
