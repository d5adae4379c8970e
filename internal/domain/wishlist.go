package domain

import (
	"slices"
	"time"
)

// DefaultProductImageURL is used when a product is added without an image.
const DefaultProductImageURL = "https://images.unsplash.com/photo-1560472354-b33ff0c44a43?w=400&h=400&fit=crop"

// Wishlist represents a collection of products a user wants, optionally
// shared with collaborators. In our access model the collaborator list is
// the visibility boundary: a wishlist is visible to its owner and to every
// user whose ID appears in Collaborators. Products live inside the wishlist
// document rather than as standalone entities - they have no meaning
// outside their list, and keeping them embedded makes every mutation a
// single-document update.
type Wishlist struct {
	Syncable
	Name          string    `json:"name"`
	Description   string    `json:"description,omitempty"`
	OwnerID       string    `json:"owner_id"` // User who created this wishlist
	Collaborators []string  `json:"collaborators"`
	Products      []Product `json:"products"`
	IsPublic      bool      `json:"is_public"` // Reserved for public link sharing
}

// Product represents a single item on a wishlist.
type Product struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Price    float64   `json:"price"`
	ImageURL string    `json:"image_url"`
	AddedBy  string    `json:"added_by"` // User ID who added the product
	AddedAt  time.Time `json:"added_at"`
	Comments []Comment `json:"comments,omitempty"`
}

// Comment represents a note left on a product by a collaborator.
// Stored and returned as-is; the server does not interpret comments.
type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// IsOwnedBy returns true if the given user created this wishlist.
func (w *Wishlist) IsOwnedBy(userID string) bool {
	return w.OwnerID == userID
}

// HasCollaborator checks if a user ID is in the collaborator list.
func (w *Wishlist) HasCollaborator(userID string) bool {
	return slices.Contains(w.Collaborators, userID)
}

// IsVisibleTo returns true if the given user may read this wishlist.
// Owners and collaborators see the list; everyone else does not.
func (w *Wishlist) IsVisibleTo(userID string) bool {
	return w.IsOwnedBy(userID) || w.HasCollaborator(userID)
}

// AddCollaborator appends a user ID to the collaborator list.
// Duplicates are allowed; visibility checks tolerate repeated IDs.
func (w *Wishlist) AddCollaborator(userID string) {
	w.Collaborators = append(w.Collaborators, userID)
}

// FindProduct returns a pointer into the product slice for the given ID,
// or nil if no product matches. The pointer is invalidated by any append.
func (w *Wishlist) FindProduct(productID string) *Product {
	for i := range w.Products {
		if w.Products[i].ID == productID {
			return &w.Products[i]
		}
	}
	return nil
}

// RemoveProduct removes a product by ID. Returns false if no product
// with that ID exists, which callers treat as a no-op rather than an error.
func (w *Wishlist) RemoveProduct(productID string) bool {
	for i, p := range w.Products {
		if p.ID == productID {
			w.Products = append(w.Products[:i], w.Products[i+1:]...)
			return true
		}
	}
	return false
}

// TotalValue returns the sum of all product prices on the wishlist.
func (w *Wishlist) TotalValue() float64 {
	var total float64
	for _, p := range w.Products {
		total += p.Price
	}
	return total
}
