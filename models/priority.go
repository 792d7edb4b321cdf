package models

import "encoding/json"

// Priority is the derived urgency tier of a booking's owner payment. It is
// recomputed on read and never persisted.
type Priority int

// Ordered by urgency so the numeric value doubles as a sort rank.
const (
	PriorityComplete Priority = iota
	PriorityLow
	PriorityMedium
	PriorityHigh
	PriorityCritical
)

func (p Priority) String() string {
	switch p {
	case PriorityCritical:
		return "critical"
	case PriorityHigh:
		return "high"
	case PriorityMedium:
		return "medium"
	case PriorityLow:
		return "low"
	default:
		return "complete"
	}
}

// ParsePriority maps a tier name from a query parameter back to a Priority.
func ParsePriority(s string) (Priority, bool) {
	switch s {
	case "critical":
		return PriorityCritical, true
	case "high":
		return PriorityHigh, true
	case "medium":
		return PriorityMedium, true
	case "low":
		return PriorityLow, true
	case "complete":
		return PriorityComplete, true
	}
	return PriorityLow, false
}

func (p Priority) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Priority) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, ok := ParsePriority(s)
	if !ok {
		v = PriorityLow
	}
	*p = v
	return nil
}
