package metrics

import (
	"testing"
	"time"

	"github.com/Team-Techentia/techentia-pdf-formatter/internal/database"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateDatabaseMetrics(t *testing.T) {
	db, err := database.OpenForTest()
	require.NoError(t, err)

	UpdateDatabaseMetrics(db)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	stats := sqlDB.Stats()

	assert.Equal(t, float64(stats.InUse), testutil.ToFloat64(databaseConnectionsActive))
	assert.Equal(t, float64(stats.Idle), testutil.ToFloat64(databaseConnectionsIdle))
}

func TestPoolCollector_SamplesOnStart(t *testing.T) {
	db, err := database.OpenForTest()
	require.NoError(t, err)

	databaseConnectionsIdle.Set(-1)

	// Stop 等待采样协程退出;启动时的首次采样此时必然已经发生
	collector := StartPoolCollector(db, time.Hour)
	collector.Stop()

	assert.GreaterOrEqual(t, testutil.ToFloat64(databaseConnectionsIdle), float64(0))
}
