package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"peacenest/internal/models"
	"peacenest/internal/store/memory"
)

func newBreathingService(t *testing.T) *BreathingService {
	t.Helper()
	mem := memory.New()
	seedUsers(t, mem, "u1")
	return NewBreathingService(mem, mem)
}

func TestBreathing_CreateAndList(t *testing.T) {
	svc := newBreathingService(t)
	ctx := context.Background()

	_, err := svc.CreateExercise(ctx, ExerciseInput{Name: "4-7-8", Duration: 300, Inhale: 4, Hold: 7, Exhale: 8, Cycles: 4})
	require.NoError(t, err)
	_, err = svc.CreateExercise(ctx, ExerciseInput{Name: "Box", Duration: 120, Inhale: 4, Hold: 4, Exhale: 4, Cycles: 6})
	require.NoError(t, err)

	out, err := svc.ListExercises(ctx)
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, "Box", out[0].Name)

	_, err = svc.CreateExercise(ctx, ExerciseInput{Name: "", Duration: 0})
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Contains(t, apiErr.Details, "name")
	assert.Contains(t, apiErr.Details, "duration")
}

func TestBreathing_SaveProgressRequiresExistingExercise(t *testing.T) {
	svc := newBreathingService(t)
	ctx := context.Background()

	_, err := svc.SaveProgress(ctx, "u1", ProgressInput{})
	assert.True(t, models.IsKind(err, models.KindValidation))

	_, err = svc.SaveProgress(ctx, "u1", ProgressInput{ExerciseID: "missing", Completed: true})
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeExerciseNotFound, apiErr.Code)
}

func TestBreathing_ProgressNewestFirstWithDefaultLimit(t *testing.T) {
	svc := newBreathingService(t)
	ctx := context.Background()

	ex, err := svc.CreateExercise(ctx, ExerciseInput{Name: "Box", Duration: 120})
	require.NoError(t, err)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < DefaultProgressLimit+3; i++ {
		at := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return at }
		_, err := svc.SaveProgress(ctx, "u1", ProgressInput{ExerciseID: ex.ID, Completed: i%2 == 0})
		require.NoError(t, err)
	}

	out, err := svc.ListProgress(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, out, DefaultProgressLimit)
	assert.Equal(t, base.Add(time.Duration(DefaultProgressLimit+2)*time.Minute), out[0].CompletedAt)

	other, err := svc.ListProgress(ctx, "u2", 5)
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestBreathing_SaveProgressForDeletedAccount(t *testing.T) {
	mem := memory.New()
	seedUsers(t, mem, "u1")
	svc := NewBreathingService(mem, mem)
	ctx := context.Background()

	ex, err := svc.CreateExercise(ctx, ExerciseInput{Name: "Box", Duration: 120})
	require.NoError(t, err)
	require.NoError(t, mem.DeleteUser(ctx, "u1"))

	_, err = svc.SaveProgress(ctx, "u1", ProgressInput{ExerciseID: ex.ID, Completed: true})
	apiErr, ok := models.AsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, models.ErrCodeUserNotFound, apiErr.Code)
}
