package main

import (
	"context"
	"strconv"
	"testing"
	"time"

	"aurachat/backend/internal/access"
	"aurachat/backend/internal/apperror"
	"aurachat/backend/internal/aura"
	"aurachat/backend/internal/feedback"
	"aurachat/backend/internal/logger"
	"aurachat/backend/internal/metrics"
	"aurachat/backend/internal/models"
	"aurachat/backend/internal/storage/storagetest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdmin(t *testing.T) (*admin, []*models.User) {
	t.Helper()
	store, _ := storagetest.NewService(t)
	log := logger.Discard()
	gate := access.NewGate(store, time.Minute, log)
	engine := aura.NewEngine(store, metrics.NewNop(), log)
	users := storagetest.CreateUsers(t, store, time.Time{}, "mod", "target")
	return &admin{store: store, gate: gate, aura: engine, feedback: feedback.NewService(store, gate, engine, log)}, users
}

func TestAdmin_BanUnban(t *testing.T) {
	ctx := context.Background()
	a, users := newAdmin(t)
	id := users[1].ID

	require.NoError(t, a.run(ctx, "ban", []string{id, "repeated", "spam"}))
	banned, err := a.gate.IsBanned(ctx, id)
	require.NoError(t, err)
	assert.True(t, banned)

	require.NoError(t, a.run(ctx, "unban", []string{id}))
	banned, err = a.gate.IsBanned(ctx, id)
	require.NoError(t, err)
	assert.False(t, banned)

	assert.Error(t, a.run(ctx, "ban", []string{id}))
}

func TestAdmin_VerifyRecalculatesAura(t *testing.T) {
	ctx := context.Background()
	a, users := newAdmin(t)
	id := users[1].ID

	_, err := a.gate.SubmitVerification(ctx, id, models.DocumentNationalID, "doc-1")
	require.NoError(t, err)
	require.NoError(t, a.run(ctx, "verify", []string{id, "verified"}))

	b, err := a.aura.Breakdown(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 50, b.VerifiedBonus)

	err = a.run(ctx, "verify", []string{id, "PENDING"})
	assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
}

func TestAdmin_ReportStatusAndLinks(t *testing.T) {
	ctx := context.Background()
	a, users := newAdmin(t)

	report, err := a.feedback.SubmitReport(ctx, feedback.ReportInput{ReporterID: users[0].ID, ReportedID: users[1].ID, Reason: "abuse"})
	require.NoError(t, err)

	require.NoError(t, a.run(ctx, "report-status", []string{itoa(report.ID), "closed"}))
	assert.Error(t, a.run(ctx, "report-status", []string{"x", "CLOSED"}))
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(a.run(ctx, "report-status", []string{"999", "CLOSED"})))

	require.NoError(t, a.run(ctx, "link-telegram", []string{users[1].ID, "-100200"}))
	u, err := a.store.GetUserByID(ctx, users[1].ID)
	require.NoError(t, err)
	require.NotNil(t, u.TelegramChatID)
	assert.Equal(t, int64(-100200), *u.TelegramChatID)

	require.NoError(t, a.run(ctx, "recalc", []string{"all"}))
	require.NoError(t, a.run(ctx, "recalc", []string{users[1].ID}))
	assert.Error(t, a.run(ctx, "shutdown", nil))
}

func itoa(n uint) string { return strconv.FormatUint(uint64(n), 10) }
