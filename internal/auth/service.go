package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/joao-fontenele/freshbulk/internal/domain"
	"github.com/joao-fontenele/freshbulk/internal/storage"
)

// Service checks credentials against the users collection and owns the
// single session projection stored under its own key. Invalid
// credentials are a negative result, never an error.
type Service struct {
	store storage.Store
}

func NewService(store storage.Store) *Service {
	return &Service{store: store}
}

// Login scans the users collection for a username match and compares
// the password against the stored bcrypt hash. On success the session
// projection is written and the matched user returned; on failure it
// returns (nil, nil) and any prior session is left untouched.
func (s *Service) Login(ctx context.Context, username, password string) (*domain.User, error) {
	users, err := storage.LoadList[domain.User](ctx, s.store, storage.KeyUsers)
	if err != nil {
		return nil, err
	}

	for i := range users {
		if users[i].Username != username {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password)) != nil {
			continue
		}

		session := domain.Session{
			ID:       users[i].ID,
			Username: users[i].Username,
			Role:     users[i].Role,
		}
		data, err := json.Marshal(session)
		if err != nil {
			return nil, fmt.Errorf("encode session: %w", err)
		}
		if err := s.store.Set(ctx, storage.KeyCurrentUser, data); err != nil {
			return nil, err
		}
		return &users[i], nil
	}
	return nil, nil
}

// Logout clears the session unconditionally.
func (s *Service) Logout(ctx context.Context) error {
	return s.store.Delete(ctx, storage.KeyCurrentUser)
}

func (s *Service) CurrentSession(ctx context.Context) (*domain.Session, error) {
	raw, err := s.store.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, nil
	}

	var session domain.Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &session, nil
}

func (s *Service) IsAdmin(ctx context.Context) (bool, error) {
	session, err := s.CurrentSession(ctx)
	if err != nil {
		return false, err
	}
	return session != nil && session.Role == domain.RoleAdmin, nil
}
