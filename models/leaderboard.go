// models/leaderboard.go
package models

import "time"

// ClubLeaderboardSnapshot is a periodically recomputed per-club rollup.
// One row per club, overwritten by the scheduler on each pass.
type ClubLeaderboardSnapshot struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	ClubID       string    `json:"clubId" gorm:"uniqueIndex;not null"`
	MemberCount  int64     `json:"memberCount" gorm:"default:0"`
	TotalGames   int64     `json:"totalGames" gorm:"default:0"`
	AverageScore int       `json:"averageScore" gorm:"default:0"`
	BestScore    int       `json:"bestScore" gorm:"default:0"`
	TopScorerID  *string   `json:"topScorerId,omitempty"`
	TopScorer    string    `json:"topScorer,omitempty"`
	ComputedAt   time.Time `json:"computedAt"`
}
