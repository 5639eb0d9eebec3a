package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/corpdesk/corpdesk/internal/models"
)

// fake user repo
type fakeRepo struct {
	byUsername map[string]*models.User
	byEmail    map[string]*models.User
	byID       map[string]*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		byUsername: map[string]*models.User{},
		byEmail:    map[string]*models.User{},
		byID:       map[string]*models.User{},
	}
}

func (f *fakeRepo) Create(ctx context.Context, u *models.User) error {
	f.byUsername[u.Username] = u
	f.byEmail[u.Email] = u
	f.byID[u.ID] = u
	return nil
}

func (f *fakeRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return f.byUsername[username], nil
}

func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func (f *fakeRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	return f.byID[id], nil
}

func TestRegisterAndAuthenticate(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	u, err := svc.Register(ctx, "john.doe", "John@Example.com", "s3cret", "John", "Doe")
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "john@example.com", u.Email)
	require.Equal(t, []string{"USER"}, u.Roles)
	require.NotEqual(t, "s3cret", u.PasswordHash)

	got, err := svc.Authenticate(ctx, "john.doe", "s3cret")
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	_, err = svc.Authenticate(ctx, "john.doe", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "s3cret")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterDuplicates(t *testing.T) {
	svc := NewService(newFakeRepo())
	ctx := context.Background()

	_, err := svc.Register(ctx, "john.doe", "john@example.com", "s3cret", "John", "Doe")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "john.doe", "other@example.com", "s3cret", "John", "Doe")
	require.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Register(ctx, "jane.doe", "john@example.com", "s3cret", "Jane", "Doe")
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterMissingFields(t *testing.T) {
	svc := NewService(newFakeRepo())

	_, err := svc.Register(context.Background(), "", "a@b.c", "pw", "", "")
	require.ErrorIs(t, err, ErrMissingField)
	_, err = svc.Register(context.Background(), "a", "a@b.c", "", "", "")
	require.ErrorIs(t, err, ErrMissingField)
}
