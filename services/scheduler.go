// services/scheduler.go
package services

import (
	"log"
	"time"

	"bowling-club-system/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"gorm.io/gorm/clause"
)

// StartLeaderboardScheduler recomputes every club's leaderboard snapshot
// once per hour.
func (s *ClubService) StartLeaderboardScheduler() {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			s.RebuildLeaderboards()
		}),
	)
}

// RebuildLeaderboards upserts one snapshot row per club: member count,
// game volume, rounded average, best score and top scorer.
func (s *ClubService) RebuildLeaderboards() {
	var clubs []models.Club
	if err := s.DB.Find(&clubs).Error; err != nil {
		log.Printf("[Scheduler] DB error: %v", err)
		return
	}

	for _, club := range clubs {
		var memberCount int64
		if err := s.DB.Model(&models.ClubMembership{}).
			Where("club_id = ? AND is_active = ?", club.ID, true).
			Count(&memberCount).Error; err != nil {
			log.Printf("[Scheduler] Member count failed for club %s: %v", club.ID, err)
			continue
		}

		var scores []models.GameScore
		if err := s.DB.
			Joins("JOIN games ON games.id = game_scores.game_id").
			Where("games.club_id = ?", club.ID).
			Find(&scores).Error; err != nil {
			log.Printf("[Scheduler] Score scan failed for club %s: %v", club.ID, err)
			continue
		}

		snapshot := models.ClubLeaderboardSnapshot{
			ID:          uuid.NewString(),
			ClubID:      club.ID,
			MemberCount: memberCount,
			TotalGames:  int64(len(scores)),
			ComputedAt:  time.Now(),
		}

		if len(scores) > 0 {
			sum := 0
			best := scores[0]
			for _, sc := range scores {
				sum += sc.Score
				if sc.Score > best.Score {
					best = sc
				}
			}
			snapshot.AverageScore = roundAverage(sum, len(scores))
			snapshot.BestScore = best.Score

			var topScorer models.User
			if err := s.DB.First(&topScorer, "id = ?", best.UserID).Error; err == nil {
				snapshot.TopScorerID = &topScorer.ID
				snapshot.TopScorer = topScorer.Name
			}
		}

		err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "club_id"}},
			UpdateAll: true,
		}).Create(&snapshot).Error
		if err != nil {
			log.Printf("[Scheduler] Snapshot upsert failed for club %s: %v", club.ID, err)
		} else {
			log.Printf("✅ Leaderboard snapshot updated for club: %s", club.Name)
		}
	}
}
