// models/game.go
package models

import "time"

const (
	GameTypePractice   = "practice"
	GameTypeLeague     = "league"
	GameTypeTournament = "tournament"
	GameTypeCasual     = "casual"
)

// Game is one dated bowling session scoped to a club and a center.
type Game struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	ClubID          string    `json:"clubId" gorm:"index;not null"`
	BowlingCenterID string    `json:"bowlingCenterId" gorm:"index;not null"`
	GameDate        time.Time `json:"gameDate" gorm:"not null"`
	GameType        string    `json:"gameType" gorm:"type:varchar(16);default:'practice'"`

	Club          Club          `json:"club,omitempty" gorm:"foreignKey:ClubID"`
	BowlingCenter BowlingCenter `json:"bowlingCenter,omitempty" gorm:"foreignKey:BowlingCenterID"`
	Scores        []GameScore   `json:"scores,omitempty" gorm:"foreignKey:GameID"`

	Timestamps
}

// GameScore is one numeric result (0–300) inside a game, owned by the
// user who bowled it. GameOrder numbers the games of a multi-game session.
type GameScore struct {
	ID        string `json:"id" gorm:"primaryKey"`
	GameID    string `json:"gameId" gorm:"index;not null"`
	UserID    string `json:"userId" gorm:"index;not null"`
	Score     int    `json:"score" gorm:"not null;check:score >= 0 AND score <= 300"`
	GameOrder int    `json:"gameOrder" gorm:"default:1"`

	Game Game `json:"game,omitempty" gorm:"foreignKey:GameID"`
	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`

	Timestamps
}
