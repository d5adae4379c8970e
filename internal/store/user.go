package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/wishkeeperapp/wishkeeper-server/internal/domain"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by ID or email.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned when attempting to create a user with an email that's already in use.
	ErrEmailExists = errors.New("email already in use")
)

// CreateUser creates a new user account.
// The email index is unique, so two users cannot register the same address.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Create(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrAlreadyExists) {
			return ErrEmailExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.Users.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Check soft delete
	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// GetUserByEmail retrieves a user by email address.
// The lookup is an exact match; "Ada@x.com" and "ada@x.com" are
// different addresses.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.Users.GetByIndex(ctx, "email", email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user by email: %w", err)
	}

	if user.IsDeleted() {
		return nil, ErrUserNotFound
	}

	return user, nil
}

// UpdateUser updates an existing user (profile changes, last login).
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	if err := s.Users.Update(ctx, user.ID, user); err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("update user: %w", err)
	}
	return nil
}

// ListUsers returns all active users.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	for user, err := range s.Users.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list users: %w", err)
		}
		if user.IsDeleted() {
			continue
		}
		users = append(users, user)
	}
	return users, nil
}
