package game

import (
	"errors"
	"fmt"
)

// ErrorKind is the stable error code surfaced to clients and mirrored as
// an ERROR_* event.
type ErrorKind string

const (
	ErrInvalidPosition      ErrorKind = "INVALID_POSITION"
	ErrInvalidCardIndex     ErrorKind = "INVALID_CARD_INDEX"
	ErrCardNotFound         ErrorKind = "CARD_NOT_FOUND"
	ErrZoneCompatibility    ErrorKind = "ZONE_COMPATIBILITY_ERROR"
	ErrFieldEffect          ErrorKind = "FIELD_EFFECT_RESTRICTION"
	ErrCardTypeZone         ErrorKind = "CARD_TYPE_ZONE_ERROR"
	ErrZoneOccupied         ErrorKind = "ZONE_OCCUPIED_ERROR"
	ErrPhaseRestriction     ErrorKind = "PHASE_RESTRICTION_ERROR"
	ErrSPPhaseRestriction   ErrorKind = "SP_PHASE_RESTRICTION"
	ErrPreventPlay          ErrorKind = "PREVENT_PLAY"
	ErrSelectionPending     ErrorKind = "CARD_SELECTION_PENDING"
	ErrWaitingForPlayer     ErrorKind = "WAITING_FOR_PLAYER"
	ErrInvalidSelection     ErrorKind = "INVALID_SELECTION"
	ErrInvalidPhaseForAct   ErrorKind = "INVALID_PHASE_FOR_ACTION"
	ErrCatalogCorrupt       ErrorKind = "CATALOG_CORRUPT"
	ErrSequenceIntegrity    ErrorKind = "SEQUENCE_INTEGRITY_BROKEN"
)

// Fatal reports whether the kind aborts the match.
func (k ErrorKind) Fatal() bool {
	return k == ErrCatalogCorrupt || k == ErrSequenceIntegrity
}

// RuleError is a validation failure with a stable kind. User-facing rule
// errors never mutate the match beyond appending an event.
type RuleError struct {
	Kind ErrorKind
	msg  string
}

func (e *RuleError) Error() string {
	if e.msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// ruleErr builds a RuleError with a formatted detail message.
func ruleErr(kind ErrorKind, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind from an error. Errors without one map
// to INVALID_PHASE_FOR_ACTION, which a client treats as a plain reject.
func KindOf(err error) ErrorKind {
	var re *RuleError
	if errors.As(err, &re) {
		return re.Kind
	}
	return ErrInvalidPhaseForAct
}
