package dto

import "time"

// CreateSessionRequest registers one training or match event. The session id
// and ISO week number are derived server-side from date and team.
type CreateSessionRequest struct {
	Date        string `json:"date" validate:"required"`
	Team        string `json:"team" validate:"required"`
	SessionType string `json:"session_type" validate:"required"`
	Duration    int    `json:"duration" validate:"omitempty,min=0"`
}

// SubmitRpeRequest records one player's exertion score for a session.
type SubmitRpeRequest struct {
	PlayerID        int64   `json:"player_id" validate:"required,min=1"`
	SessionID       string  `json:"session_id"`
	Date            string  `json:"date" validate:"required"`
	RpeScore        float64 `json:"rpe_score" validate:"required,min=1,max=10"`
	TrainingMinutes int     `json:"training_minutes" validate:"omitempty,min=0"`
}

// SessionResponse echoes a stored session.
type SessionResponse struct {
	SessionID   string    `json:"session_id"`
	Date        time.Time `json:"date"`
	Team        string    `json:"team"`
	SessionType string    `json:"session_type"`
	Duration    int       `json:"duration"`
	WeekNumber  int       `json:"weeknumber"`
}
