package game

import "time"

// nextSequenceID returns the id the next play record will carry.
// Sequence ids are dense and start at 1.
func (m *MatchState) nextSequenceID() int {
	return len(m.PlaySequence) + 1
}

// appendRecord adds a record to the play sequence, stamping sequence id,
// turn, phase and time.
func (m *MatchState) appendRecord(rec PlayRecord) *PlayRecord {
	rec.SequenceID = m.nextSequenceID()
	rec.TurnNumber = m.CurrentTurn
	rec.Phase = m.Phase
	rec.Timestamp = time.Now().UTC()
	m.PlaySequence = append(m.PlaySequence, rec)
	return &m.PlaySequence[len(m.PlaySequence)-1]
}

// checkSequence verifies the play sequence is dense and monotonic.
// A gap or duplicate means the stored state is corrupt and the match
// cannot continue.
func (m *MatchState) checkSequence() error {
	for i, rec := range m.PlaySequence {
		if rec.SequenceID != i+1 {
			return ruleErr(ErrSequenceIntegrity,
				"play sequence corrupt: record %d has sequenceId %d", i, rec.SequenceID)
		}
	}
	return nil
}
