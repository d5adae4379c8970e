package service

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wishkeeperapp/wishkeeper-server/internal/auth"
	"github.com/wishkeeperapp/wishkeeper-server/internal/store"
)

const testKeyHex = "0000000000000000000000000000000000000000000000000000000000000001"

type testServices struct {
	store     *store.Store
	auth      *AuthService
	sessions  *SessionService
	wishlists *WishlistService
}

func setupTestServices(t *testing.T) (*testServices, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "service-test-*")
	require.NoError(t, err)

	s, err := store.New(filepath.Join(tmpDir, "test.db"), nil)
	require.NoError(t, err)

	tokenService, err := auth.NewTokenService(testKeyHex, 15*time.Minute, 720*time.Hour)
	require.NoError(t, err)

	sessions := NewSessionService(s, tokenService, nil)
	authService := NewAuthService(s, tokenService, sessions, nil)
	wishlists := NewWishlistService(s, nil)

	cleanup := func() {
		_ = s.Close()
		_ = os.RemoveAll(tmpDir)
	}

	return &testServices{
		store:     s,
		auth:      authService,
		sessions:  sessions,
		wishlists: wishlists,
	}, cleanup
}
