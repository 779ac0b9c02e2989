package models

import "time"

// RpeEntry is one player's self-reported exertion for one session, read from
// the player_rpe collection. Field presence is inconsistent upstream: a zero
// or absent TrainingMinutes means "use the session duration", an absent
// RpeScore disqualifies the entry from load aggregation, and SessionID may be
// empty or dangling. All "effectively absent" coercion happens in the
// normalization stage, not here.
type RpeEntry struct {
	PlayerID        int64      `bson:"player_id" json:"player_id"`
	SessionID       string     `bson:"session_id,omitempty" json:"session_id"`
	Date            time.Time  `bson:"date,omitempty" json:"date"`
	RpeScore        *float64   `bson:"rpe_score,omitempty" json:"rpe_score,omitempty"`
	TrainingMinutes *int       `bson:"training_minutes,omitempty" json:"training_minutes,omitempty"`
	Timestamp       *time.Time `bson:"timestamp,omitempty" json:"timestamp,omitempty"`
}

// EffectiveEntry is an RpeEntry joined to its session and roster rows, with
// derived minutes and load. It exists only in memory for one analysis call.
type EffectiveEntry struct {
	PlayerID         int64      `json:"player_id"`
	PlayerName       string     `json:"player_name"`
	SessionID        string     `json:"session_id"`
	EntryDate        time.Time  `json:"date"`
	RpeScore         *float64   `json:"rpe_score,omitempty"`
	Timestamp        *time.Time `json:"timestamp,omitempty"`
	SessionDate      *time.Time `json:"session_date,omitempty"`
	SessionTeam      string     `json:"session_team,omitempty"`
	SessionType      string     `json:"session_type,omitempty"`
	SessionDuration  int        `json:"session_duration"`
	Week             *int       `json:"week,omitempty"`
	EffectiveMinutes int        `json:"effective_minutes"`
	Load             float64    `json:"load"`
}

// Orphan reports whether the session reference did not resolve.
func (e EffectiveEntry) Orphan() bool {
	return e.SessionDate == nil
}

// WeeklyPlayerLoad is one player's summed load for one ISO week, with the
// acute/chronic rolling metrics. Chronic and ACR are nil when undefined; a
// missing ratio is never reported as zero.
type WeeklyPlayerLoad struct {
	PlayerID   int64    `json:"player_id"`
	PlayerName string   `json:"player_name"`
	Team       string   `json:"team"`
	Week       int      `json:"week"`
	Load       float64  `json:"load"`
	Acute      float64  `json:"acute"`
	Chronic    *float64 `json:"chronic,omitempty"`
	ACR        *float64 `json:"acr,omitempty"`
	Risk       string   `json:"risk,omitempty"`
}

// SessionTypeAggregate summarises load per ISO week and session type for the
// session dashboard.
type SessionTypeAggregate struct {
	Week         int     `json:"week"`
	SessionType  string  `json:"session_type"`
	TotalLoad    float64 `json:"total_load"`
	SessionCount int     `json:"session_count"`
	PlayerCount  int     `json:"player_count"`
}

// DailyOverviewCellEmpty marks roster players without an entry for a date.
const DailyOverviewCellEmpty = "–"

// DailyOverviewRow is one roster player's line in the daily pivot. Cells is
// keyed by ISO date string and holds "score | minutes" text.
type DailyOverviewRow struct {
	PlayerID   int64             `json:"player_id"`
	PlayerName string            `json:"player_name"`
	Cells      map[string]string `json:"cells"`
}

// DailyOverview is the player × date pivot. Dates are ascending ISO strings;
// rows are sorted by player name and always cover the full active roster.
type DailyOverview struct {
	Dates []string           `json:"dates"`
	Rows  []DailyOverviewRow `json:"rows"`
}
