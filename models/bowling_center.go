// models/bowling_center.go
package models

type BowlingCenter struct {
	ID               string `json:"id" gorm:"primaryKey"`
	Name             string `json:"name" gorm:"not null"`
	Address          string `json:"address"`
	LaneCount        int    `json:"laneCount" gorm:"default:0"`
	ParkingAvailable bool   `json:"parkingAvailable" gorm:"default:false"`

	Timestamps
}
