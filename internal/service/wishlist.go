package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wishkeeperapp/wishkeeper-server/internal/domain"
	domainerrors "github.com/wishkeeperapp/wishkeeper-server/internal/errors"
	"github.com/wishkeeperapp/wishkeeper-server/internal/id"
	"github.com/wishkeeperapp/wishkeeper-server/internal/store"
)

// WishlistService handles wishlist and product management.
// Every mutation goes through the store's atomic mutate path, so
// concurrent edits to the same wishlist cannot lose updates.
type WishlistService struct {
	store  *store.Store
	logger *slog.Logger
}

// NewWishlistService creates a new wishlist service.
func NewWishlistService(store *store.Store, logger *slog.Logger) *WishlistService {
	return &WishlistService{
		store:  store,
		logger: logger,
	}
}

// CreateWishlistRequest contains new wishlist data.
type CreateWishlistRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// AddProductRequest contains new product data.
type AddProductRequest struct {
	Name     string  `json:"name" validate:"required,max=200"`
	Price    float64 `json:"price" validate:"gte=0"`
	ImageURL string  `json:"image_url" validate:"omitempty,url"`
}

// UpdateProductRequest contains partial product updates.
// Nil fields are left unchanged.
type UpdateProductRequest struct {
	Name     *string  `json:"name" validate:"omitempty,max=200"`
	Price    *float64 `json:"price" validate:"omitempty,gte=0"`
	ImageURL *string  `json:"image_url" validate:"omitempty,url"`
}

// InviteCollaboratorRequest identifies the user to invite by email.
type InviteCollaboratorRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Create creates a new wishlist owned by the given user.
func (s *WishlistService) Create(ctx context.Context, ownerID string, req CreateWishlistRequest) (*domain.Wishlist, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	wishlistID, err := id.Generate("wish")
	if err != nil {
		return nil, fmt.Errorf("generate wishlist ID: %w", err)
	}

	wishlist := &domain.Wishlist{
		Name:          req.Name,
		Description:   req.Description,
		OwnerID:       ownerID,
		Collaborators: []string{},
		Products:      []domain.Product{},
	}
	wishlist.ID = wishlistID
	wishlist.InitTimestamps()

	if err := s.store.CreateWishlist(ctx, wishlist); err != nil {
		return nil, fmt.Errorf("create wishlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Wishlist created", "wishlist_id", wishlist.ID, "owner_id", ownerID)
	}

	return wishlist, nil
}

// ListForUser returns every wishlist the user owns or collaborates on.
func (s *WishlistService) ListForUser(ctx context.Context, userID string) ([]*domain.Wishlist, error) {
	wishlists, err := s.store.ListWishlistsForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list wishlists: %w", err)
	}
	return wishlists, nil
}

// Get returns a wishlist if the user may see it.
// Wishlists outside the user's visibility read as not found, so the
// response doesn't reveal whether the ID exists.
func (s *WishlistService) Get(ctx context.Context, userID, wishlistID string) (*domain.Wishlist, error) {
	wishlist, err := s.store.GetWishlist(ctx, wishlistID)
	if err != nil {
		if errors.Is(err, store.ErrWishlistNotFound) {
			return nil, domainerrors.NotFound("wishlist not found")
		}
		return nil, fmt.Errorf("get wishlist: %w", err)
	}

	if !wishlist.IsVisibleTo(userID) {
		return nil, domainerrors.NotFound("wishlist not found")
	}

	return wishlist, nil
}

// Delete removes a wishlist. Only the owner may delete it.
func (s *WishlistService) Delete(ctx context.Context, userID, wishlistID string) error {
	wishlist, err := s.Get(ctx, userID, wishlistID)
	if err != nil {
		return err
	}

	if !wishlist.IsOwnedBy(userID) {
		return domainerrors.Forbidden("only the owner can delete a wishlist")
	}

	if err := s.store.DeleteWishlist(ctx, wishlistID); err != nil {
		return fmt.Errorf("delete wishlist: %w", err)
	}

	if s.logger != nil {
		s.logger.Info("Wishlist deleted", "wishlist_id", wishlistID, "user_id", userID)
	}

	return nil
}

// AddProduct adds a product to a wishlist.
// Products without an image get a placeholder so the client grid stays uniform.
func (s *WishlistService) AddProduct(ctx context.Context, userID, wishlistID string, req AddProductRequest) (*domain.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	productID, err := id.Generate("prod")
	if err != nil {
		return nil, fmt.Errorf("generate product ID: %w", err)
	}

	imageURL := req.ImageURL
	if imageURL == "" {
		imageURL = domain.DefaultProductImageURL
	}

	product := domain.Product{
		ID:       productID,
		Name:     req.Name,
		Price:    req.Price,
		ImageURL: imageURL,
		AddedBy:  userID,
		AddedAt:  time.Now(),
	}

	err = s.mutateVisible(ctx, userID, wishlistID, func(w *domain.Wishlist) error {
		w.Products = append(w.Products, product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &product, nil
}

// UpdateProduct applies a partial update to a product.
// Only fields present in the request change; everything else is kept.
func (s *WishlistService) UpdateProduct(ctx context.Context, userID, wishlistID, productID string, req UpdateProductRequest) (*domain.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	var updated domain.Product
	err := s.mutateVisible(ctx, userID, wishlistID, func(w *domain.Wishlist) error {
		product := w.FindProduct(productID)
		if product == nil {
			return store.ErrProductNotFound
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Price != nil {
			product.Price = *req.Price
		}
		if req.ImageURL != nil {
			product.ImageURL = *req.ImageURL
		}

		updated = *product
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return nil, domainerrors.NotFound("product not found")
		}
		return nil, err
	}

	return &updated, nil
}

// RemoveProduct removes a product from a wishlist.
// Removing an absent product is a no-op, so retried deletes stay safe.
func (s *WishlistService) RemoveProduct(ctx context.Context, userID, wishlistID, productID string) error {
	return s.mutateVisible(ctx, userID, wishlistID, func(w *domain.Wishlist) error {
		w.RemoveProduct(productID)
		return nil
	})
}

// InviteCollaborator grants another registered user access to a wishlist.
// The invitee is looked up by email; unknown addresses get NOT_FOUND so
// the inviter knows the friend has to sign up first.
func (s *WishlistService) InviteCollaborator(ctx context.Context, userID, wishlistID string, req InviteCollaboratorRequest) (*domain.Wishlist, error) {
	if err := validate.Struct(req); err != nil {
		return nil, formatValidationError(err)
	}

	invitee, err := s.store.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, domainerrors.NotFound("no account found with that email")
		}
		return nil, fmt.Errorf("lookup invitee: %w", err)
	}

	err = s.mutateVisible(ctx, userID, wishlistID, func(w *domain.Wishlist) error {
		w.AddCollaborator(invitee.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logger != nil {
		s.logger.Info("Collaborator invited", "wishlist_id", wishlistID, "invitee_id", invitee.ID, "invited_by", userID)
	}

	return s.Get(ctx, userID, wishlistID)
}

// mutateVisible runs fn against the wishlist inside a single transaction,
// first checking the acting user can see the list.
func (s *WishlistService) mutateVisible(ctx context.Context, userID, wishlistID string, fn func(*domain.Wishlist) error) error {
	err := s.store.MutateWishlist(ctx, wishlistID, func(w *domain.Wishlist) error {
		if !w.IsVisibleTo(userID) {
			return store.ErrWishlistNotFound
		}
		return fn(w)
	})

	if errors.Is(err, store.ErrWishlistNotFound) {
		return domainerrors.NotFound("wishlist not found")
	}
	return err
}
