// Package session holds the identity of the logged-in user. A Session is a
// plain value handed to every service call; Store persists the single
// "current user" slot across process restarts.
package session

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/budgetkeeper/internal/common"
	"github.com/dmitrijs2005/budgetkeeper/internal/repositories/metadata"
)

// Session identifies the user on whose behalf an operation runs.
type Session struct {
	UserID string
}

// Require returns common.ErrorNoSession when nobody is logged in.
func (s Session) Require() error {
	if s.UserID == "" {
		return common.ErrorNoSession
	}
	return nil
}

// Anonymous is the session before login.
var Anonymous = Session{}

// Store reads and writes the current user slot in the metadata table.
// The slot has no expiry: it is set on login and cleared on logout.
type Store struct {
	repo metadata.Repository
}

func NewStore(repo metadata.Repository) *Store {
	return &Store{repo: repo}
}

// Load returns the persisted session, or Anonymous when the slot is empty.
func (s *Store) Load(ctx context.Context) (Session, error) {
	v, ok, err := s.repo.Get(ctx, common.CurrentUserKey)
	if err != nil {
		return Anonymous, fmt.Errorf("failed to load session: %w", err)
	}
	if !ok {
		return Anonymous, nil
	}
	return Session{UserID: v}, nil
}

func (s *Store) Save(ctx context.Context, sess Session) error {
	if err := sess.Require(); err != nil {
		return err
	}
	if err := s.repo.Set(ctx, common.CurrentUserKey, sess.UserID); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

func (s *Store) Clear(ctx context.Context) error {
	if err := s.repo.Delete(ctx, common.CurrentUserKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
