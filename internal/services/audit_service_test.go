package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/userhubio/userhub/internal/database/testutil"
	"github.com/userhubio/userhub/internal/models"
)

func TestAuditServiceLogAndList(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewAuditService(db)
	require.NoError(t, err)

	ctx := context.Background()
	userID := "user-1"

	require.NoError(t, svc.Log(ctx, AuditEntry{
		UserID:   &userID,
		Action:   "user.login",
		Resource: userID,
		Result:   "success",
		Metadata: map[string]any{"ip": "10.0.0.1"},
	}))
	require.NoError(t, svc.Log(ctx, AuditEntry{
		Action:   "user.login",
		Resource: "user-2",
		Result:   "failure",
	}))

	logs, total, err := svc.List(ctx, AuditListOptions{})
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	logs, total, err = svc.List(ctx, AuditListOptions{
		Filters: AuditFilters{Result: "failure"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, "user-2", logs[0].Resource)
	require.Nil(t, logs[0].UserID)

	logs, _, err = svc.List(ctx, AuditListOptions{
		Filters: AuditFilters{UserID: userID},
	})
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Contains(t, string(logs[0].Metadata), "10.0.0.1")
}

func TestAuditServiceLogValidation(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewAuditService(db)
	require.NoError(t, err)

	require.Error(t, svc.Log(context.Background(), AuditEntry{Result: "success"}))
	require.Error(t, svc.Log(context.Background(), AuditEntry{Action: "user.login"}))
}

func TestAuditServiceCleanup(t *testing.T) {
	db := testutil.MustOpenTestDB(t)

	svc, err := NewAuditService(db)
	require.NoError(t, err)

	old := models.AuditLog{Action: "user.login", Result: "success"}
	require.NoError(t, db.Create(&old).Error)
	require.NoError(t, db.Model(&old).
		UpdateColumn("created_at", time.Now().AddDate(0, 0, -90)).Error)

	recent := models.AuditLog{Action: "user.login", Result: "success"}
	require.NoError(t, db.Create(&recent).Error)

	removed, err := svc.CleanupOlderThan(context.Background(), 30)
	require.NoError(t, err)
	require.EqualValues(t, 1, removed)

	var count int64
	require.NoError(t, db.Model(&models.AuditLog{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	_, err = svc.CleanupOlderThan(context.Background(), 0)
	require.Error(t, err)
}
