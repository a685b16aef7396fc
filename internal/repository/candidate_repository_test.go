package repository

import (
	"context"
	"testing"
	"time"

	"orbit-hr-backend/config"
	"orbit-hr-backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloseStageOnlyClosesOpenStage(t *testing.T) {
	db, err := config.ConnectDB(config.DatabaseConfig{Driver: "sqlite", DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	repo := NewCandidateRepository(db)
	ctx := context.Background()

	c := &model.Candidate{Email: "a@example.com", CandidateStatus: model.StageApplied}
	require.NoError(t, repo.Create(ctx, c))
	entered := time.Date(2025, 7, 1, 2, 0, 0, 0, time.UTC)
	stage := &model.CandidateStage{CandidateID: c.ID, StageKey: model.StageApplied, EnteredAt: entered, CreatedBy: "hr-1"}
	require.NoError(t, repo.CreateStage(ctx, stage))

	snapshot := *stage
	require.NoError(t, repo.CloseStage(ctx, stage, entered.Add(time.Hour), nil))
	require.NotNil(t, stage.DurationSeconds)
	assert.EqualValues(t, 3600, *stage.DurationSeconds)

	// a second writer holding the same snapshot must not overwrite the exit
	err = repo.CloseStage(ctx, &snapshot, entered.Add(2*time.Hour), nil)
	assert.ErrorIs(t, err, ErrStageNotOpen)
	assert.Nil(t, snapshot.ExitedAt)

	stages, err := repo.ListStages(ctx, c.ID)
	require.NoError(t, err)
	require.Len(t, stages, 1)
	assert.EqualValues(t, 3600, *stages[0].DurationSeconds)

	locked, err := repo.GetForUpdate(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, locked.ID)
}
