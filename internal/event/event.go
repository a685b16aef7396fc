package event

import "time"

// Envelope wraps every payload published by the service.
type Envelope[T any] struct {
	Kind      string    `json:"kind"`
	MessageID string    `json:"message_id"`
	Payload   T         `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
}

// AttendanceEvent mirrors one attendance_logs row after its transaction committed.
type AttendanceEvent struct {
	AttendanceID   string    `json:"attendance_id"`
	UserID         string    `json:"user_id"`
	AttendanceDate string    `json:"attendance_date"`
	EventType      string    `json:"event_type"`
	Status         string    `json:"status"`
	EventTime      time.Time `json:"event_time"`
	Description    string    `json:"description"`
}

// StageChangedEvent is emitted when a candidate moves to a new pipeline stage.
type StageChangedEvent struct {
	CandidateID   string    `json:"candidate_id"`
	PreviousStage string    `json:"previous_stage,omitempty"`
	StageKey      string    `json:"stage_key"`
	ChangedBy     string    `json:"changed_by"`
	EnteredAt     time.Time `json:"entered_at"`
}
