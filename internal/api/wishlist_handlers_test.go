package api

import (
	"encoding/json/v2"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wishkeeperapp/wishkeeper-server/internal/domain"
)

// createWishlist creates a wishlist over HTTP and returns its ID.
func (ts *testServer) createWishlist(t *testing.T, token, name string) string {
	t.Helper()

	resp := ts.api.Post("/api/v1/wishlists",
		map[string]any{"name": name},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[WishlistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	return envelope.Data.ID
}

func TestCreateWishlist_Success(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.signupUser(t, "owner@example.com", "Owner")

	resp := ts.api.Post("/api/v1/wishlists",
		map[string]any{
			"name":        "Birthday",
			"description": "Things I'd love this year",
		},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[WishlistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.True(t, envelope.Success)
	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Birthday", envelope.Data.Name)
	assert.Equal(t, userID, envelope.Data.OwnerID)
	assert.Empty(t, envelope.Data.Products)
	assert.Zero(t, envelope.Data.TotalValue)
}

func TestCreateWishlist_RequiresAuth(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	resp := ts.api.Post("/api/v1/wishlists", map[string]any{"name": "Nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestListWishlists_OwnedAndShared(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.signupUser(t, "lister@example.com", "Lister")
	friendToken, _ := ts.signupUser(t, "friend@example.com", "Friend")

	ownedID := ts.createWishlist(t, ownerToken, "Mine")
	sharedID := ts.createWishlist(t, friendToken, "Theirs")

	// Share the friend's list with the owner.
	resp := ts.api.Post("/api/v1/wishlists/"+sharedID+"/collaborators",
		map[string]any{"email": "lister@example.com"},
		"Authorization: Bearer "+friendToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = ts.api.Get("/api/v1/wishlists", "Authorization: Bearer "+ownerToken)
	require.Equal(t, http.StatusOK, resp.Code)

	var envelope testEnvelope[ListWishlistsResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	ids := make([]string, len(envelope.Data.Wishlists))
	for i, w := range envelope.Data.Wishlists {
		ids[i] = w.ID
	}
	assert.ElementsMatch(t, []string{ownedID, sharedID}, ids)
}

func TestGetWishlist_InvisibleReadsAsNotFound(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.signupUser(t, "private@example.com", "Private")
	strangerToken, _ := ts.signupUser(t, "stranger@example.com", "Stranger")

	wishlistID := ts.createWishlist(t, ownerToken, "Secret")

	resp := ts.api.Get("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+strangerToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)

	// The owner still sees it.
	resp = ts.api.Get("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestDeleteWishlist_OwnerOnly(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.signupUser(t, "deleter@example.com", "Deleter")
	friendToken, _ := ts.signupUser(t, "helper@example.com", "Helper")

	wishlistID := ts.createWishlist(t, ownerToken, "Doomed")

	// Make the friend a collaborator so they can see the list.
	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/collaborators",
		map[string]any{"email": "helper@example.com"},
		"Authorization: Bearer "+ownerToken)
	require.Equal(t, http.StatusOK, resp.Code)

	// Collaborators cannot delete.
	resp = ts.api.Delete("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+friendToken)
	assert.Equal(t, http.StatusForbidden, resp.Code)

	// The owner can.
	resp = ts.api.Delete("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Get("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+ownerToken)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestAddProduct_DefaultsPlaceholderImage(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, userID := ts.signupUser(t, "shopper@example.com", "Shopper")
	wishlistID := ts.createWishlist(t, token, "Gadgets")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/products",
		map[string]any{
			"name":  "Mechanical Keyboard",
			"price": 129.99,
		},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[ProductResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))

	assert.NotEmpty(t, envelope.Data.ID)
	assert.Equal(t, "Mechanical Keyboard", envelope.Data.Name)
	assert.Equal(t, 129.99, envelope.Data.Price)
	assert.Equal(t, domain.DefaultProductImageURL, envelope.Data.ImageURL)
	assert.Equal(t, userID, envelope.Data.AddedBy)

	// Total value reflects the new product.
	resp = ts.api.Get("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var wl testEnvelope[WishlistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &wl))
	assert.Equal(t, 129.99, wl.Data.TotalValue)
}

func TestAddProduct_NegativePriceRejected(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "cheap@example.com", "Cheap")
	wishlistID := ts.createWishlist(t, token, "Bargains")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/products",
		map[string]any{
			"name":  "Refund Magnet",
			"price": -5,
		},
		"Authorization: Bearer "+token)
	assert.True(t, resp.Code == http.StatusBadRequest || resp.Code == http.StatusUnprocessableEntity,
		"expected 4xx validation failure, got %d", resp.Code)
}

func TestUpdateProduct_PartialMerge(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "editor@example.com", "Editor")
	wishlistID := ts.createWishlist(t, token, "Edits")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/products",
		map[string]any{
			"name":      "Camera",
			"price":     450.0,
			"image_url": "https://example.com/camera.jpg",
		},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[ProductResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	// Only the price changes; name and image stay put.
	resp = ts.api.Patch("/api/v1/wishlists/"+wishlistID+"/products/"+created.Data.ID,
		map[string]any{"price": 399.0},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated testEnvelope[ProductResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))

	assert.Equal(t, "Camera", updated.Data.Name)
	assert.Equal(t, 399.0, updated.Data.Price)
	assert.Equal(t, "https://example.com/camera.jpg", updated.Data.ImageURL)
}

func TestUpdateProduct_MissingProduct(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "lost@example.com", "Lost")
	wishlistID := ts.createWishlist(t, token, "Empty")

	resp := ts.api.Patch("/api/v1/wishlists/"+wishlistID+"/products/prod_missing",
		map[string]any{"price": 10.0},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestRemoveProduct_Idempotent(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "remover@example.com", "Remover")
	wishlistID := ts.createWishlist(t, token, "Cleanup")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/products",
		map[string]any{"name": "Socks", "price": 9.99},
		"Authorization: Bearer "+token)
	require.Equal(t, http.StatusOK, resp.Code)

	var created testEnvelope[ProductResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &created))

	resp = ts.api.Delete("/api/v1/wishlists/"+wishlistID+"/products/"+created.Data.ID,
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)

	// A second delete is still OK.
	resp = ts.api.Delete("/api/v1/wishlists/"+wishlistID+"/products/"+created.Data.ID,
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestInviteCollaborator_GrantsAccess(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	ownerToken, _ := ts.signupUser(t, "host@example.com", "Host")
	friendToken, friendID := ts.signupUser(t, "guest@example.com", "Guest")

	wishlistID := ts.createWishlist(t, ownerToken, "Wedding")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/collaborators",
		map[string]any{"email": "guest@example.com"},
		"Authorization: Bearer "+ownerToken)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var envelope testEnvelope[WishlistResponse]
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope))
	assert.Contains(t, envelope.Data.Collaborators, friendID)

	// The collaborator can now see the list and add products.
	resp = ts.api.Get("/api/v1/wishlists/"+wishlistID, "Authorization: Bearer "+friendToken)
	assert.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Post("/api/v1/wishlists/"+wishlistID+"/products",
		map[string]any{"name": "Toaster", "price": 45.0},
		"Authorization: Bearer "+friendToken)
	assert.Equal(t, http.StatusOK, resp.Code)
}

func TestInviteCollaborator_UnknownEmail(t *testing.T) {
	ts := setupTestServer(t)
	defer ts.cleanup()

	token, _ := ts.signupUser(t, "alone@example.com", "Alone")
	wishlistID := ts.createWishlist(t, token, "Solo")

	resp := ts.api.Post("/api/v1/wishlists/"+wishlistID+"/collaborators",
		map[string]any{"email": "ghost@example.com"},
		"Authorization: Bearer "+token)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}
