package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/campus-portal/internal/models"
)

func TestActivityLogRepositoryFiltersAndPaginates(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	entries := []models.ActivityLog{
		{ActorID: "1", ActorRole: "admin", Action: "student.created", EntityType: "student", EntityID: "s-1", CreatedAt: base},
		{ActorID: "1", ActorRole: "admin", Action: "teacher.deleted", EntityType: "teacher", EntityID: "t-1", CreatedAt: base.Add(time.Minute)},
		{ActorID: "2", ActorRole: "teacher", Action: "marks.submitted", EntityType: "marks", EntityID: "c-1", CreatedAt: base.Add(2 * time.Minute), Metadata: datatypes.JSONMap{"rows": 3}},
	}
	for i := range entries {
		require.NoError(t, repo.Create(ctx, &entries[i]))
	}

	items, total, err := repo.List(ctx, ActivityLogFilter{ActorID: "1", PageSize: 10})
	require.NoError(t, err)
	require.Equal(t, int64(2), total)
	require.Equal(t, "teacher.deleted", items[0].Action, "expected newest entry first")

	items, total, err = repo.List(ctx, ActivityLogFilter{Page: 2, PageSize: 2})
	require.NoError(t, err)
	require.Equal(t, int64(3), total)
	require.Len(t, items, 1)
	require.Equal(t, "student.created", items[0].Action)

	items, _, err = repo.List(ctx, ActivityLogFilter{EntityType: "marks"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, models.ActivityOutcomeCommitted, items[0].Outcome)
}

func TestActivityLogRepositoryFiltersRevertedChanges(t *testing.T) {
	db := setupTestDB(t)
	repo := NewActivityLogRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: "1", ActorRole: "admin", Action: "teacher.deleted", EntityType: "teacher", EntityID: "t-1"}))
	require.NoError(t, repo.Create(ctx, &models.ActivityLog{ActorID: "1", ActorRole: "admin", Action: "teacher.deleted", EntityType: "teacher", EntityID: "t-2", Outcome: models.ActivityOutcomeReverted}))

	items, total, err := repo.List(ctx, ActivityLogFilter{Outcome: models.ActivityOutcomeReverted})
	require.NoError(t, err)
	require.Equal(t, int64(1), total)
	require.Equal(t, "t-2", items[0].EntityID)

	items, total, err = repo.List(ctx, ActivityLogFilter{EntityID: "t-9"})
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, items)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ActivityLog{}))
	return db
}
