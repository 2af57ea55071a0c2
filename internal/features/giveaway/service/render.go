package service

import (
	"fmt"
	"giveaway-bot/internal/features/giveaway/models"
	"strings"
	"time"
)

const timeLayout = "2006-01-02 15:04 MST"

func renderActive(g *models.Giveaway) string {
	return fmt.Sprintf("🎉 GIVEAWAY: %s\nHosted by <@%s>\nWinners: %d\nEnds: %s",
		g.Prize, g.HostID, g.WinnersCount, g.EndTime.UTC().Format(timeLayout))
}

func renderEnded(g *models.Giveaway) string {
	return fmt.Sprintf("🎉 GIVEAWAY ENDED: %s\nHosted by <@%s>\nEntries: %d\nWinners: %s\nEnded: %s",
		g.Prize, g.HostID, len(g.Participants), mentions(g.Winners), endedAt(g).UTC().Format(timeLayout))
}

func renderWinners(g *models.Giveaway, rerolled bool) string {
	if len(g.Winners) == 0 {
		return fmt.Sprintf("No valid entries for **%s**, no winners could be drawn.", g.Prize)
	}
	if rerolled {
		return fmt.Sprintf("🔄 New winners for **%s**: %s", g.Prize, mentions(g.Winners))
	}
	return fmt.Sprintf("Congratulations %s! You won **%s**!", mentions(g.Winners), g.Prize)
}

func renderAborted(prize string) string {
	return fmt.Sprintf("This giveaway for %s could not be started. Please try again.", prize)
}

func mentions(ids []string) string {
	if len(ids) == 0 {
		return "none"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "<@" + id + ">"
	}
	return strings.Join(parts, ", ")
}

func endedAt(g *models.Giveaway) time.Time {
	if g.EndedAt != nil {
		return *g.EndedAt
	}
	return g.EndTime
}
