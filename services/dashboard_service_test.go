// services/dashboard_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// A data-access failure must degrade to a zeroed dashboard, never an error.
func TestBuildUserDashboardFailSoft(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file:dashboard_failsoft?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	stats := NewDashboardService(db).buildUserDashboard("any-user")

	assert.Equal(t, 0, stats.TotalGames)
	assert.Equal(t, 0, stats.AverageScore)
	assert.Equal(t, 0, stats.HighestScore)
	assert.Empty(t, stats.RecentGames)
	assert.Empty(t, stats.ClubActivities)
	assert.Empty(t, stats.ClubMemberships)
	assert.NotNil(t, stats.RecentGames, "lists stay non-nil so JSON renders [] not null")
}
