package sessions

import "context"

// Service wraps store operations with the refresh rotation protocol.
type Service struct {
	store Store
}

func NewService(s Store) *Service { return &Service{store: s} }

func (s *Service) Create(ctx context.Context, userID, username, deviceInfo string) (string, error) {
	return s.store.Create(ctx, userID, username, deviceInfo)
}

func (s *Service) Validate(ctx context.Context, id string) (*RefreshSession, error) {
	return s.store.Validate(ctx, id)
}

func (s *Service) Revoke(ctx context.Context, id string) (bool, error) {
	return s.store.Revoke(ctx, id)
}

func (s *Service) RevokeAll(ctx context.Context, userID string) (int, error) {
	return s.store.RevokeAll(ctx, userID)
}

func (s *Service) ListActive(ctx context.Context, userID string) ([]RefreshSession, error) {
	return s.store.ListActive(ctx, userID)
}

// Rotate exchanges a still-valid refresh session for a fresh one. When the
// store provides an atomic rotation primitive it is used, so two concurrent
// refresh calls presenting the same id cannot both mint a replacement. The
// fallback path (revoke then create) relies on Revoke reporting prior
// existence: the loser of the race fails with ErrNotFound instead of issuing
// a second session.
func (s *Service) Rotate(ctx context.Context, oldID, deviceInfo string) (*RefreshSession, string, error) {
	if rot, ok := s.store.(Rotator); ok {
		return rot.Rotate(ctx, oldID, deviceInfo)
	}

	old, err := s.store.Validate(ctx, oldID)
	if err != nil {
		return nil, "", err
	}
	existed, err := s.store.Revoke(ctx, oldID)
	if err != nil {
		return nil, "", err
	}
	if !existed {
		return nil, "", ErrNotFound
	}
	newID, err := s.store.Create(ctx, old.UserID, old.Username, deviceInfo)
	if err != nil {
		return nil, "", err
	}
	return old, newID, nil
}
