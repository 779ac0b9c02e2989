package models

import "time"

// Duplicate detection key types.
const (
	DuplicateKeySession = "player_id+session_id"
	DuplicateKeyDate    = "player_id+date"
)

// ComplianceRecord reports expected vs actual RPE submissions for one player
// over the season. Exempt players carry Expected == 0 and are always reported
// fully compliant.
type ComplianceRecord struct {
	PlayerID      int64   `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	Expected      int     `json:"expected"`
	Actual        int     `json:"actual"`
	CompliancePct float64 `json:"compliance_pct"`
}

// DuplicateCluster is one group of entries sharing a dedup key. Count is the
// total number of entries in the group, not the number of extras.
type DuplicateCluster struct {
	KeyType   string `json:"key_type"`
	PlayerID  int64  `json:"player_id"`
	SessionID string `json:"session_id,omitempty"`
	Date      string `json:"date,omitempty"`
	Count     int    `json:"count"`
}

// AnomalyRecord carries the per-entry quality flags. Flags are independent;
// an entry may raise several at once.
type AnomalyRecord struct {
	PlayerID             int64      `json:"player_id"`
	SessionID            string     `json:"session_id"`
	Date                 *time.Time `json:"date,omitempty"`
	Timestamp            *time.Time `json:"timestamp,omitempty"`
	MissingSessionID     bool       `json:"missing_session_id"`
	OrphanSessionID      bool       `json:"orphan_session_id"`
	TimestampOutOfWindow bool       `json:"timestamp_out_of_window"`
}

// Flagged reports whether any anomaly flag is raised.
func (a AnomalyRecord) Flagged() bool {
	return a.MissingSessionID || a.OrphanSessionID || a.TimestampOutOfWindow
}

// WeeklyCompliancePoint is one step of the cumulative team compliance trend.
type WeeklyCompliancePoint struct {
	Week              int     `json:"weeknumber"`
	TeamCompliancePct float64 `json:"team_compliance_pct"`
}

// QualitySummary holds the report's headline scalars.
type QualitySummary struct {
	TeamCompliancePct float64 `json:"team_compliance_pct"`
	SessionsInSeason  int     `json:"n_sessions_in_season"`
	Duplicates        int     `json:"n_duplicates"`
	Anomalies         int     `json:"n_anomalies"`
	SeasonWeeks       []int   `json:"season_weeks"`
}

// QualityReport bundles the season data-quality tables for one team.
type QualityReport struct {
	Team                 string                  `json:"team"`
	Compliance           []ComplianceRecord      `json:"compliance"`
	Duplicates           []DuplicateCluster      `json:"duplicates"`
	Anomalies            []AnomalyRecord         `json:"anomalies"`
	WeeklyTeamCompliance []WeeklyCompliancePoint `json:"weekly_team_compliance"`
	Summary              QualitySummary          `json:"summary"`
}
