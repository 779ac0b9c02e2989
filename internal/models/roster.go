package models

import "strings"

// RosterPlayer identifies a squad member. PlayerID is the stable primary key.
type RosterPlayer struct {
	PlayerID  int64  `bson:"player_id" json:"player_id"`
	Team      string `bson:"team" json:"team"`
	FirstName string `bson:"player_first_name" json:"first_name"`
	LastName  string `bson:"player_last_name" json:"last_name"`
	Active    bool   `bson:"active" json:"active"`
}

// DisplayName renders the "Last, First" form used across dashboard tables.
func (p RosterPlayer) DisplayName() string {
	last := strings.TrimSpace(p.LastName)
	first := strings.TrimSpace(p.FirstName)
	if last == "" {
		return first
	}
	if first == "" {
		return last
	}
	return last + ", " + first
}
