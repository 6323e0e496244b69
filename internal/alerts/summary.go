package alerts

// Summary holds per-type alert counts. Wire fields absent from a server
// response decode to zero.
type Summary struct {
	FallCount              int `json:"fall_count"`
	RapidMovementCount     int `json:"rapid_movement_count"`
	SeizureCount           int `json:"seizure_count"`
	BedExitCount           int `json:"bed_exit_count"`
	AbnormalPostureCount   int `json:"abnormal_posture_count"`
	AbnormalBreathingCount int `json:"abnormal_breathing_count"`
}

// SummaryFor computes per-type counts for a batch.
func SummaryFor(batch []Alert) Summary {
	var s Summary
	for _, alert := range batch {
		s.Add(alert.Type)
	}
	return s
}

// Add increments the counter for t. Unknown types are ignored.
func (s *Summary) Add(t Type) {
	switch t {
	case TypeFall:
		s.FallCount++
	case TypeRapidMovement:
		s.RapidMovementCount++
	case TypeSeizure:
		s.SeizureCount++
	case TypeBedExit:
		s.BedExitCount++
	case TypeAbnormalPosture:
		s.AbnormalPostureCount++
	case TypeAbnormalBreathing:
		s.AbnormalBreathingCount++
	}
}

// Count returns the counter for t.
func (s Summary) Count(t Type) int {
	switch t {
	case TypeFall:
		return s.FallCount
	case TypeRapidMovement:
		return s.RapidMovementCount
	case TypeSeizure:
		return s.SeizureCount
	case TypeBedExit:
		return s.BedExitCount
	case TypeAbnormalPosture:
		return s.AbnormalPostureCount
	case TypeAbnormalBreathing:
		return s.AbnormalBreathingCount
	}
	return 0
}

// Total sums every per-type counter.
func (s Summary) Total() int {
	return s.FallCount +
		s.RapidMovementCount +
		s.SeizureCount +
		s.BedExitCount +
		s.AbnormalPostureCount +
		s.AbnormalBreathingCount
}
