// models/club.go
package models

import "time"

const (
	RoleMaster    = "master"
	RoleSubMaster = "sub-master"
	RoleMember    = "member"
)

type Club struct {
	ID              string  `json:"id" gorm:"primaryKey"`
	Name            string  `json:"name" gorm:"not null"`
	Slug            string  `json:"slug" gorm:"uniqueIndex;not null"`
	Description     string  `json:"description"`
	ClubFee         int     `json:"clubFee" gorm:"default:0"`
	BowlingCenterID *string `json:"bowlingCenterId,omitempty" gorm:"index"`

	BowlingCenter *BowlingCenter   `json:"bowlingCenter,omitempty" gorm:"foreignKey:BowlingCenterID"`
	Members       []ClubMembership `json:"members,omitempty" gorm:"foreignKey:ClubID"`

	Timestamps
}

// ClubMembership links a user to a club with a role. A user's game writes
// and statistics for a club are gated on an *active* membership row.
type ClubMembership struct {
	ID         string    `json:"id" gorm:"primaryKey"`
	UserID     string    `json:"userId" gorm:"index;not null"`
	ClubID     string    `json:"clubId" gorm:"index;not null"`
	Role       string    `json:"role" gorm:"type:varchar(16);default:'member'"`
	IsActive   bool      `json:"isActive" gorm:"default:true"`
	JoinedDate time.Time `json:"joinedDate" gorm:"autoCreateTime"`

	User User `json:"user,omitempty" gorm:"foreignKey:UserID"`
	Club Club `json:"club,omitempty" gorm:"foreignKey:ClubID"`

	Timestamps
}
