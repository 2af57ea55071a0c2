package models

import (
	"slices"
	"time"
)

const (
	MinWinnersCount = 1
	MaxWinnersCount = 10
)

// GiveawayStatus represents the status of a giveaway
type GiveawayStatus string

const (
	GiveawayStatusActive   GiveawayStatus = "active"   // Accepting entries
	GiveawayStatusEnded    GiveawayStatus = "ended"    // Winners drawn
	GiveawayStatusRerolled GiveawayStatus = "rerolled" // Winners drawn again after the end
)

func (s GiveawayStatus) IsValid() bool {
	switch s {
	case GiveawayStatusActive, GiveawayStatusEnded, GiveawayStatusRerolled:
		return true
	}
	return false
}

// Giveaway is a time-bounded drawing owned by a single tenant. Its ID is the
// id of the announcement message published when it was created.
type Giveaway struct {
	TenantID     string         `json:"tenant_id"`
	ID           string         `json:"id"`
	ChannelID    string         `json:"channel_id"`
	HostID       string         `json:"host_id"`
	Prize        string         `json:"prize"`
	WinnersCount int            `json:"winners_count"`
	EndTime      time.Time      `json:"end_time"`
	Participants []string       `json:"participants"`
	Status       GiveawayStatus `json:"status"`
	Winners      []string       `json:"winners"`
	CreatedAt    time.Time      `json:"created_at"`
	EndedAt      *time.Time     `json:"ended_at,omitempty"`
	RerolledAt   *time.Time     `json:"rerolled_at,omitempty"`
}

func (g *Giveaway) HasParticipant(userID string) bool {
	return slices.Contains(g.Participants, userID)
}

// AcceptsEntries reports whether entries are still allowed at now. A giveaway
// past its end time is closed even if no sweep has flipped its status yet.
func (g *Giveaway) AcceptsEntries(now time.Time) bool {
	return g.Status == GiveawayStatusActive && now.Before(g.EndTime)
}

// IsDue reports whether an active giveaway should be ended by a sweep at now.
func (g *Giveaway) IsDue(now time.Time, buffer time.Duration) bool {
	return g.Status == GiveawayStatusActive && !g.EndTime.After(now.Add(buffer))
}

// Clone returns a deep copy so callers can mutate without aliasing stored state.
func (g *Giveaway) Clone() *Giveaway {
	c := *g
	c.Participants = slices.Clone(g.Participants)
	c.Winners = slices.Clone(g.Winners)
	if g.EndedAt != nil {
		t := *g.EndedAt
		c.EndedAt = &t
	}
	if g.RerolledAt != nil {
		t := *g.RerolledAt
		c.RerolledAt = &t
	}
	return &c
}

// Outcome is the result of an end or reroll transition, used for notification.
type Outcome struct {
	Giveaway *Giveaway
	Winners  []string
	Status   GiveawayStatus
	At       time.Time
}

// JoinResult is returned for an accepted entry.
type JoinResult struct {
	TotalEntries int `json:"total_entries"`
}

// GiveawayCreate carries the data needed to start a giveaway.
type GiveawayCreate struct {
	TenantID     string
	HostID       string
	ChannelID    string
	Prize        string
	WinnersCount int
	Duration     time.Duration
}
