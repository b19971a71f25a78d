package game

import (
	"encoding/json"
	"fmt"
	"time"

	"revreb/internal/catalog"
)

// --- Enums ---

// Phase is the match-level phase of the state machine.
type Phase int

const (
	PhaseStartRedraw Phase = iota
	PhaseDraw
	PhaseMain
	PhaseSP
	PhaseBattle
	PhaseEndLeaderBattle
	PhaseGameEnd
)

var phaseNames = map[Phase]string{
	PhaseStartRedraw:     "START_REDRAW",
	PhaseDraw:            "DRAW_PHASE",
	PhaseMain:            "MAIN_PHASE",
	PhaseSP:              "SP_PHASE",
	PhaseBattle:          "BATTLE_PHASE",
	PhaseEndLeaderBattle: "END_LEADER_BATTLE",
	PhaseGameEnd:         "GAME_END",
}

func (p Phase) String() string {
	if s, ok := phaseNames[p]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the phase by name so persisted matches stay readable.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Phase) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for ph, name := range phaseNames {
		if name == s {
			*p = ph
			return nil
		}
	}
	return fmt.Errorf("unknown phase %q", s)
}

// Zone is one of the five per-player field zones.
type Zone int

const (
	ZoneTop Zone = iota
	ZoneLeft
	ZoneRight
	ZoneHelp
	ZoneSP
)

// ZoneCount is the number of playable field zones.
const ZoneCount = 5

var zoneNames = map[Zone]string{
	ZoneTop:   catalog.ZoneTop,
	ZoneLeft:  catalog.ZoneLeft,
	ZoneRight: catalog.ZoneRight,
	ZoneHelp:  catalog.ZoneHelp,
	ZoneSP:    catalog.ZoneSP,
}

func (z Zone) String() string {
	if s, ok := zoneNames[z]; ok {
		return s
	}
	return "UNKNOWN"
}

// MarshalJSON encodes the zone by name.
func (z Zone) MarshalJSON() ([]byte, error) {
	return json.Marshal(z.String())
}

func (z *Zone) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for zone, name := range zoneNames {
		if name == s {
			*z = zone
			return nil
		}
	}
	return fmt.Errorf("unknown zone %q", s)
}

// IsBattle reports whether the zone is a character battle zone.
func (z Zone) IsBattle() bool {
	return z == ZoneTop || z == ZoneLeft || z == ZoneRight
}

// ZoneFromFieldIndex maps the wire fieldIndex (0..4) to a zone.
func ZoneFromFieldIndex(i int) (Zone, bool) {
	if i < 0 || i >= ZoneCount {
		return 0, false
	}
	return Zone(i), true
}

// BattleZones lists the three character zones in display order.
var BattleZones = []Zone{ZoneTop, ZoneLeft, ZoneRight}

// AllZones lists every field zone.
var AllZones = []Zone{ZoneTop, ZoneLeft, ZoneRight, ZoneHelp, ZoneSP}

// --- Play sequence records ---

// RecordAction tags a play-sequence record.
type RecordAction string

const (
	RecordPlayLeader     RecordAction = "PLAY_LEADER"
	RecordPlayCard       RecordAction = "PLAY_CARD"
	RecordSetPower       RecordAction = "APPLY_SET_POWER"
	RecordNeutralization RecordAction = "APPLY_NEUTRALIZATION"
	RecordDraw           RecordAction = "APPLY_DRAW"
	RecordDiscard        RecordAction = "APPLY_DISCARD"
	RecordSearch         RecordAction = "APPLY_SEARCH"
)

// RecordData carries the per-action payload of a play record. Selection
// outcomes are persisted here so a replay never needs transient state.
type RecordData struct {
	// Targets are the card ids a setPower or neutralization applies to.
	Targets []string `json:"targets,omitempty"`
	// Zones marks a zone-scoped neutralization (applies to whatever sits
	// in those zones of the target player, now or later this battle).
	Zones []string `json:"zones,omitempty"`
	// TargetPlayerID is the player a zone-scoped record points at.
	TargetPlayerID string `json:"targetPlayerId,omitempty"`
	// Value is the setPower value.
	Value int `json:"value"`
	// Count is the drawn/discarded card count.
	Count int `json:"count,omitempty"`
	// CardIDs are discarded or search-selected card ids.
	CardIDs []string `json:"cardIds,omitempty"`
	// Destination says where search-selected cards went.
	Destination catalog.Destination `json:"destination,omitempty"`
	// SearchedCount is how many cards were looked at for a search.
	SearchedCount int `json:"searchedCount,omitempty"`
	// NeutralizationID ties the record to the neutralization history.
	NeutralizationID string `json:"neutralizationId,omitempty"`
	// SourceCard is the card whose effect produced this record.
	SourceCard string `json:"sourceCard,omitempty"`
	// FaceDown marks face-down placements.
	FaceDown bool `json:"faceDown,omitempty"`
}

// PlayRecord is one entry of the append-only play sequence.
type PlayRecord struct {
	SequenceID int          `json:"sequenceId"`
	PlayerID   string       `json:"playerId"`
	CardID     string       `json:"cardId,omitempty"`
	Action     RecordAction `json:"action"`
	Zone       Zone         `json:"zone"`
	HasZone    bool         `json:"hasZone"`
	Data       RecordData   `json:"data"`
	TurnNumber int          `json:"turnNumber"`
	Phase      Phase        `json:"phaseWhenPlayed"`
	Timestamp  time.Time    `json:"timestamp"`
}

// --- Field cards ---

// FieldCard is one placement in a zone.
type FieldCard struct {
	CardID       string `json:"cardId"`
	FaceDown     bool   `json:"faceDown"`
	ValueOnField int    `json:"valueOnField"`
}

// --- Player actions ---

// ActionType enumerates the client-facing action variants.
type ActionType string

const (
	ActionPlayCard          ActionType = "PlayCard"
	ActionPlayCardBack      ActionType = "PlayCardBack"
	ActionSelectCard        ActionType = "SelectCard"
	ActionAcknowledgeEvents ActionType = "AcknowledgeEvents"
	ActionStartReady        ActionType = "StartReady"
)

// Action is a single player request against a match.
type Action struct {
	Type            ActionType `json:"type"`
	CardIndex       int        `json:"cardIndex"`
	FieldIndex      int        `json:"fieldIndex"`
	SelectionID     string     `json:"selectionId,omitempty"`
	SelectedCardIDs []string   `json:"selectedCardIds,omitempty"`
	EventIDs        []int      `json:"eventIds,omitempty"`
	Redraw          bool       `json:"redraw,omitempty"`
}

func (a Action) String() string {
	switch a.Type {
	case ActionPlayCard, ActionPlayCardBack:
		return fmt.Sprintf("%s(card=%d, field=%d)", a.Type, a.CardIndex, a.FieldIndex)
	case ActionSelectCard:
		return fmt.Sprintf("SelectCard(%s)", a.SelectionID)
	default:
		return string(a.Type)
	}
}

// --- Neutralization history ---

// NeutralizationRecord keeps provenance for every neutralization so that
// disabled effects stay auditable.
type NeutralizationRecord struct {
	ID          string    `json:"id"`
	SequenceID  int       `json:"sequenceId"`
	PlayerID    string    `json:"playerId"`
	SourceCard  string    `json:"sourceCard"`
	TargetCards []string  `json:"targetCards,omitempty"`
	TargetZones []string  `json:"targetZones,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
