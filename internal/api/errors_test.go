package api

import (
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/wishkeeperapp/wishkeeper-server/internal/errors"
	"github.com/wishkeeperapp/wishkeeper-server/internal/store"
)

func TestErrorHandler_DomainError(t *testing.T) {
	RegisterErrorHandler()

	statusErr := huma.NewError(http.StatusInternalServerError, "wrapper",
		domainerrors.Forbidden("not your wishlist"))

	apiErr, ok := statusErr.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusForbidden, apiErr.GetStatus())
	assert.Equal(t, string(domainerrors.CodeForbidden), apiErr.Code)
	assert.Equal(t, "not your wishlist", apiErr.Message)
}

func TestErrorHandler_StoreConflict(t *testing.T) {
	RegisterErrorHandler()

	// A transaction aborted by a concurrent commit is the client's to
	// retry, not a server fault.
	statusErr := huma.NewError(http.StatusInternalServerError, "update wishlist",
		store.ErrTxnConflict)

	apiErr, ok := statusErr.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.GetStatus())
	assert.Equal(t, string(domainerrors.CodeConflict), apiErr.Code)
}

func TestErrorHandler_StoreNotFound(t *testing.T) {
	RegisterErrorHandler()

	statusErr := huma.NewError(http.StatusInternalServerError, "get user",
		store.ErrUserNotFound)

	apiErr, ok := statusErr.(*APIError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, apiErr.GetStatus())
	assert.Equal(t, string(domainerrors.CodeNotFound), apiErr.Code)
}
