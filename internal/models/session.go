package models

import "time"

// Session types: four training intensities plus "M" for matches.
const (
	SessionTypeT1    = "T1"
	SessionTypeT2    = "T2"
	SessionTypeT3    = "T3"
	SessionTypeT4    = "T4"
	SessionTypeMatch = "M"
)

// Session represents one training or match event. SessionID is derived at
// creation as YYYYMMDD + team and assumed unique per (team, date).
type Session struct {
	SessionID   string    `bson:"session_id" json:"session_id"`
	Date        time.Time `bson:"date" json:"date"`
	Team        string    `bson:"team" json:"team"`
	SessionType string    `bson:"session_type" json:"session_type"`
	Duration    int       `bson:"duration" json:"duration"`
	WeekNumber  int       `bson:"weeknumber" json:"weeknumber"`
}

// ValidSessionType reports whether t is one of the enumerated session types.
func ValidSessionType(t string) bool {
	switch t {
	case SessionTypeT1, SessionTypeT2, SessionTypeT3, SessionTypeT4, SessionTypeMatch:
		return true
	}
	return false
}
