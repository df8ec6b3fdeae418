// services/stats.go
package services

import (
	"math"
	"sort"

	"bowling-club-system/models"
)

type NameRef struct {
	Name string `json:"name"`
}

type RecentGame struct {
	ID            string  `json:"id"`
	Score         int     `json:"score"`
	GameOrder     int     `json:"gameOrder"`
	GameDate      string  `json:"gameDate"`
	GameType      string  `json:"gameType,omitempty"`
	Club          NameRef `json:"club"`
	BowlingCenter NameRef `json:"bowlingCenter"`
}

type MonthlyStat struct {
	Month        string `json:"month"`
	GameCount    int    `json:"gameCount"`
	AverageScore int    `json:"averageScore"`
}

type UserStats struct {
	TotalGames    int           `json:"totalGames"`
	AverageScore  int           `json:"averageScore"`
	BestScore     int           `json:"bestScore"`
	WorstScore    int           `json:"worstScore"`
	TotalScoreSum int           `json:"totalScoreSum"`
	RecentGames   []RecentGame  `json:"recentGames"`
	MonthlyStats  []MonthlyStat `json:"monthlyStats"`
}

func roundAverage(sum, count int) int {
	return int(math.Round(float64(sum) / float64(count)))
}

// computeUserStats aggregates a user's scores. Input must be ordered most
// recent first, with Game.Club and Game.BowlingCenter preloaded. An empty
// history yields all zeros and empty lists, not an error.
func computeUserStats(scores []models.GameScore) *UserStats {
	stats := &UserStats{
		RecentGames:  []RecentGame{},
		MonthlyStats: []MonthlyStat{},
	}
	if len(scores) == 0 {
		return stats
	}

	stats.TotalGames = len(scores)
	stats.BestScore = scores[0].Score
	stats.WorstScore = scores[0].Score
	for _, sc := range scores {
		stats.TotalScoreSum += sc.Score
		if sc.Score > stats.BestScore {
			stats.BestScore = sc.Score
		}
		if sc.Score < stats.WorstScore {
			stats.WorstScore = sc.Score
		}
	}
	stats.AverageScore = roundAverage(stats.TotalScoreSum, stats.TotalGames)

	for _, sc := range scores[:min(5, len(scores))] {
		stats.RecentGames = append(stats.RecentGames, RecentGame{
			ID:            sc.ID,
			Score:         sc.Score,
			GameOrder:     sc.GameOrder,
			GameDate:      sc.Game.GameDate.UTC().Format("2006-01-02T15:04:05.000Z"),
			GameType:      sc.Game.GameType,
			Club:          NameRef{Name: sc.Game.Club.Name},
			BowlingCenter: NameRef{Name: sc.Game.BowlingCenter.Name},
		})
	}

	// Month buckets keyed YYYY-MM, newest first, capped at 6
	type bucket struct {
		count int
		sum   int
	}
	monthly := map[string]*bucket{}
	for _, sc := range scores {
		month := sc.Game.GameDate.UTC().Format("2006-01")
		if monthly[month] == nil {
			monthly[month] = &bucket{}
		}
		monthly[month].count++
		monthly[month].sum += sc.Score
	}

	months := make([]string, 0, len(monthly))
	for m := range monthly {
		months = append(months, m)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(months)))
	if len(months) > 6 {
		months = months[:6]
	}
	for _, m := range months {
		b := monthly[m]
		stats.MonthlyStats = append(stats.MonthlyStats, MonthlyStat{
			Month:        m,
			GameCount:    b.count,
			AverageScore: roundAverage(b.sum, b.count),
		})
	}

	return stats
}
