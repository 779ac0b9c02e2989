package service

import (
	"sort"
	"strings"
	"time"

	"github.com/teamstaff/staffdash-api/internal/models"
	appErrors "github.com/teamstaff/staffdash-api/pkg/errors"
)

// The join and normalization stages below reshape the loosely-typed store
// documents into EffectiveEntry records. They are deliberately pure so each
// stage can be exercised without a live store. Orphan entries (no session
// match) survive the join with a nil session date; load paths filter them
// out, quality audits rely on seeing them.

const isoDateLayout = "2006-01-02"

// buildEffectiveEntries left-joins entries to sessions on session_id and to
// the roster for display names, then derives effective minutes, load and the
// ISO week of the session's date. An entry's own date never decides the week.
func buildEffectiveEntries(sessions []models.Session, roster []models.RosterPlayer, entries []models.RpeEntry) []models.EffectiveEntry {
	sessionsByID := make(map[string]models.Session, len(sessions))
	for _, s := range sessions {
		sessionsByID[s.SessionID] = s
	}
	names := make(map[int64]string, len(roster))
	for _, p := range roster {
		names[p.PlayerID] = p.DisplayName()
	}

	out := make([]models.EffectiveEntry, 0, len(entries))
	for _, e := range entries {
		eff := models.EffectiveEntry{
			PlayerID:   e.PlayerID,
			PlayerName: names[e.PlayerID],
			SessionID:  strings.TrimSpace(e.SessionID),
			EntryDate:  e.Date,
			RpeScore:   e.RpeScore,
			Timestamp:  e.Timestamp,
		}
		if s, ok := sessionsByID[eff.SessionID]; ok && eff.SessionID != "" {
			date := s.Date
			eff.SessionDate = &date
			eff.SessionTeam = s.Team
			eff.SessionType = s.SessionType
			eff.SessionDuration = s.Duration
			week := sessionWeek(s)
			eff.Week = &week
		}
		eff.EffectiveMinutes = effectiveMinutes(e.TrainingMinutes, eff.SessionDuration)
		if e.RpeScore != nil {
			eff.Load = *e.RpeScore * float64(eff.EffectiveMinutes)
		}
		out = append(out, eff)
	}
	return out
}

// sessionWeek prefers the stored weeknumber, deriving it from the session
// date when the document predates the field.
func sessionWeek(s models.Session) int {
	if s.WeekNumber > 0 {
		return s.WeekNumber
	}
	_, week := s.Date.ISOWeek()
	return week
}

// effectiveMinutes applies the minutes policy: a positive user-entered
// override wins, else the session duration, else zero.
func effectiveMinutes(override *int, sessionDuration int) int {
	if override != nil && *override > 0 {
		return *override
	}
	if sessionDuration > 0 {
		return sessionDuration
	}
	return 0
}

// filterTeam keeps entries whose joined session belongs to the team. Orphans
// never match.
func filterTeam(entries []models.EffectiveEntry, team string) []models.EffectiveEntry {
	out := make([]models.EffectiveEntry, 0, len(entries))
	for _, e := range entries {
		if e.SessionTeam == team && team != "" {
			out = append(out, e)
		}
	}
	return out
}

// latestPerPlayerDay keeps, per (player, entry date), the entry with the
// greatest submission timestamp. Ties and missing timestamps resolve to the
// last entry seen, which keeps reruns deterministic. Output is ordered by
// player id then date.
func latestPerPlayerDay(entries []models.EffectiveEntry) []models.EffectiveEntry {
	type key struct {
		player int64
		day    string
	}

	best := make(map[key]models.EffectiveEntry, len(entries))
	for _, e := range entries {
		k := key{player: e.PlayerID, day: e.EntryDate.Format(isoDateLayout)}
		current, ok := best[k]
		if !ok || !laterThan(current.Timestamp, e.Timestamp) {
			best[k] = e
		}
	}

	out := make([]models.EffectiveEntry, 0, len(best))
	for _, e := range best {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PlayerID != out[j].PlayerID {
			return out[i].PlayerID < out[j].PlayerID
		}
		return out[i].EntryDate.Before(out[j].EntryDate)
	})
	return out
}

// laterThan reports whether a is strictly later than b, treating a missing
// timestamp as the earliest possible instant.
func laterThan(a, b *time.Time) bool {
	if a == nil {
		return false
	}
	if b == nil {
		return true
	}
	return a.After(*b)
}

// checkRosterShape fails fast when the roster collection is present but holds
// no usable player ids, so callers see a computation error instead of a
// misleading empty table.
func checkRosterShape(roster []models.RosterPlayer) error {
	if len(roster) == 0 {
		return nil
	}
	for _, p := range roster {
		if p.PlayerID > 0 {
			return nil
		}
	}
	return appErrors.Computation("roster records are missing player ids")
}
