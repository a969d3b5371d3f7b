package feed

import (
	"time"

	"cyberguard/models"
)

// SeedPosts returns the three example posts an empty feed starts with.
// Timestamps are relative to now so the feed looks recent on first
// load; the author is the synthetic system session.
func SeedPosts(now time.Time) []models.Post {
	return []models.Post{
		{
			ID:            "static-1",
			Title:         "Major Ransomware Attack on a Small Business?",
			Content:       "My friend's company was hit; all files encrypted. They didn't have backups. Is there any way to fight this without paying the ransom?",
			GuardianID:    "3087",
			Category:      models.CategoryDanger,
			Timestamp:     now.Add(-3 * time.Hour),
			UserSessionID: SystemSessionID,
		},
		{
			ID:            "static-2",
			Title:         "Don't Forget to Check Your Router Firmware!",
			Content:       "Just updated my router; found out I was running five versions behind. Router security is often the weakest link in a home network. Patch everything!",
			GuardianID:    "5193",
			Category:      models.CategoryTip,
			Timestamp:     now.Add(-24 * time.Hour),
			UserSessionID: SystemSessionID,
		},
		{
			ID:            "static-3",
			Title:         "Are hardware security keys worth the investment?",
			Content:       "I use an authenticator app, but keep seeing YubiKeys recommended. For a normal user, is the extra cost justified for better protection?",
			GuardianID:    "1402",
			Category:      models.CategoryQuestion,
			Timestamp:     now.Add(-48 * time.Hour),
			UserSessionID: SystemSessionID,
		},
	}
}
