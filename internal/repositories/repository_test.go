package repositories

import (
	"context"
	"testing"

	"chessyui/internal/database"
	"chessyui/internal/services"
	"chessyui/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ services.EcoTableStore        = (EcoTableRepository)(nil)
	_ services.NotificationRecorder = (NotificationRepository)(nil)
)

func TestClampHistoryLimit(t *testing.T) {
	tests := []struct {
		name     string
		limit    int
		expected int
	}{
		{name: "zero uses default", limit: 0, expected: DEFAULT_NOTIFICATION_HISTORY_LIMIT},
		{name: "negative uses default", limit: -4, expected: DEFAULT_NOTIFICATION_HISTORY_LIMIT},
		{name: "within bounds", limit: 20, expected: 20},
		{name: "capped", limit: 10000, expected: MAX_NOTIFICATION_HISTORY_LIMIT},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, clampHistoryLimit(tt.limit))
		})
	}
}

func TestRepositories_WithoutStores(t *testing.T) {
	ctx := context.Background()
	repo := New(database.DB{})

	err := repo.Notification.RecordNotification(ctx, 1, types.Notification{
		Type:  types.NotificationInfo,
		Title: "Download Started",
	})
	assert.NoError(t, err)

	records, err := repo.Notification.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, records)

	table, found, err := repo.EcoTable.LoadEcoTable(ctx)
	assert.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, table)

	assert.NoError(t, repo.EcoTable.SaveEcoTable(ctx, services.StaticEcoTable()))
	assert.NoError(t, repo.EcoTable.ClearEcoTable(ctx))
}
