package provisioning

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/corpdesk/corpdesk/internal/directory/repository"
)

func event(typ, userID string) *Event {
	return &Event{
		EventType: typ,
		UserID:    userID,
		Username:  "john.doe",
		Email:     "john@example.com",
		FullName:  "John Doe",
		Timestamp: time.Now().UTC(),
	}
}

func TestApplyCreatedIdempotent(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, repo, event(EventCreated, "u-1")))
	// duplicate delivery must neither error nor produce a second record
	require.NoError(t, Apply(ctx, repo, event(EventCreated, "u-1")))

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestApplyUpdatedUpserts(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, repo, event(EventCreated, "u-1")))

	ev := event(EventUpdated, "u-1")
	ev.Email = "new@example.com"
	require.NoError(t, Apply(ctx, repo, ev))

	got, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", got.Email)
}

func TestApplyUpdateBeforeCreate(t *testing.T) {
	// out-of-order delivery: an update for an unseen user creates the record
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, repo, event(EventUpdated, "u-2")))

	got, err := repo.Get(ctx, "u-2")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "john.doe", got.Username)
}

func TestApplyDeleted(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	require.NoError(t, Apply(ctx, repo, event(EventCreated, "u-1")))
	require.NoError(t, Apply(ctx, repo, event(EventDeleted, "u-1")))

	got, err := repo.Get(ctx, "u-1")
	require.NoError(t, err)
	require.Nil(t, got)

	// deleting an absent record is a no-op
	require.NoError(t, Apply(ctx, repo, event(EventDeleted, "u-1")))
}

func TestApplyRejectsBadEvents(t *testing.T) {
	repo := repository.NewMemoryRepository()
	ctx := context.Background()

	require.Error(t, Apply(ctx, repo, event(EventCreated, "")))
	require.Error(t, Apply(ctx, repo, event("PURGED", "u-1")))

	// update does not clobber HR-owned reporting edges
	require.NoError(t, Apply(ctx, repo, event(EventCreated, "u-3")))
	repo.SetReporting("u-3", "m-1", "eng")
	require.NoError(t, Apply(ctx, repo, event(EventUpdated, "u-3")))
	got, _ := repo.Get(ctx, "u-3")
	require.Equal(t, "m-1", got.DirectManagerID)
	require.Equal(t, "eng", got.DepartmentID)
}
