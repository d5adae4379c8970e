package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/wishkeeperapp/wishkeeper-server/internal/domain"
	"github.com/wishkeeperapp/wishkeeper-server/internal/service"
)

func (s *Server) registerWishlistRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listWishlists",
		Method:      http.MethodGet,
		Path:        "/api/v1/wishlists",
		Summary:     "List wishlists",
		Description: "Returns all wishlists the user owns or collaborates on",
		Tags:        []string{"Wishlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListWishlists)

	huma.Register(s.api, huma.Operation{
		OperationID: "createWishlist",
		Method:      http.MethodPost,
		Path:        "/api/v1/wishlists",
		Summary:     "Create wishlist",
		Description: "Creates a new wishlist owned by the current user",
		Tags:        []string{"Wishlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWishlist",
		Method:      http.MethodGet,
		Path:        "/api/v1/wishlists/{wishlistID}",
		Summary:     "Get wishlist",
		Description: "Returns a wishlist by ID",
		Tags:        []string{"Wishlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteWishlist",
		Method:      http.MethodDelete,
		Path:        "/api/v1/wishlists/{wishlistID}",
		Summary:     "Delete wishlist",
		Description: "Deletes a wishlist (owner only)",
		Tags:        []string{"Wishlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteWishlist)

	huma.Register(s.api, huma.Operation{
		OperationID: "addProduct",
		Method:      http.MethodPost,
		Path:        "/api/v1/wishlists/{wishlistID}/products",
		Summary:     "Add product",
		Description: "Adds a product to a wishlist",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleAddProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProduct",
		Method:      http.MethodPatch,
		Path:        "/api/v1/wishlists/{wishlistID}/products/{productID}",
		Summary:     "Update product",
		Description: "Applies a partial update to a product",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "removeProduct",
		Method:      http.MethodDelete,
		Path:        "/api/v1/wishlists/{wishlistID}/products/{productID}",
		Summary:     "Remove product",
		Description: "Removes a product from a wishlist",
		Tags:        []string{"Products"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRemoveProduct)

	huma.Register(s.api, huma.Operation{
		OperationID: "inviteCollaborator",
		Method:      http.MethodPost,
		Path:        "/api/v1/wishlists/{wishlistID}/collaborators",
		Summary:     "Invite collaborator",
		Description: "Invites a registered user to a wishlist by email",
		Tags:        []string{"Wishlists"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleInviteCollaborator)
}

// === DTOs ===

// CommentResponse contains product comment data in API responses.
type CommentResponse struct {
	ID        string    `json:"id" doc:"Comment ID"`
	UserID    string    `json:"user_id" doc:"Author user ID"`
	Text      string    `json:"text" doc:"Comment text"`
	CreatedAt time.Time `json:"created_at" doc:"Creation time"`
}

// ProductResponse contains product data in API responses.
type ProductResponse struct {
	ID       string            `json:"id" doc:"Product ID"`
	Name     string            `json:"name" doc:"Product name"`
	Price    float64           `json:"price" doc:"Product price"`
	ImageURL string            `json:"image_url" doc:"Product image URL"`
	AddedBy  string            `json:"added_by" doc:"User ID of who added the product"`
	AddedAt  time.Time         `json:"added_at" doc:"When the product was added"`
	Comments []CommentResponse `json:"comments,omitempty" doc:"Product comments"`
}

// WishlistResponse contains wishlist data in API responses.
type WishlistResponse struct {
	ID            string            `json:"id" doc:"Wishlist ID"`
	Name          string            `json:"name" doc:"Wishlist name"`
	Description   string            `json:"description,omitempty" doc:"Wishlist description"`
	OwnerID       string            `json:"owner_id" doc:"Owner user ID"`
	Collaborators []string          `json:"collaborators" doc:"Collaborator user IDs"`
	Products      []ProductResponse `json:"products" doc:"Products in the wishlist"`
	TotalValue    float64           `json:"total_value" doc:"Sum of all product prices"`
	IsPublic      bool              `json:"is_public" doc:"Whether the wishlist is publicly visible"`
	CreatedAt     time.Time         `json:"created_at" doc:"Creation time"`
	UpdatedAt     time.Time         `json:"updated_at" doc:"Last update time"`
}

// ListWishlistsResponse contains a list of wishlists.
type ListWishlistsResponse struct {
	Wishlists []WishlistResponse `json:"wishlists" doc:"List of wishlists"`
}

// ListWishlistsOutput wraps the list wishlists response for Huma.
type ListWishlistsOutput struct {
	Body ListWishlistsResponse
}

// CreateWishlistRequest is the request body for creating a wishlist.
type CreateWishlistRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=200" doc:"Wishlist name"`
	Description string `json:"description,omitempty" validate:"omitempty,max=2000" doc:"Wishlist description"`
}

// CreateWishlistInput wraps the create wishlist request for Huma.
type CreateWishlistInput struct {
	Body CreateWishlistRequest
}

// WishlistOutput wraps the wishlist response for Huma.
type WishlistOutput struct {
	Body WishlistResponse
}

// GetWishlistInput contains parameters for getting a wishlist.
type GetWishlistInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
}

// DeleteWishlistInput contains parameters for deleting a wishlist.
type DeleteWishlistInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
}

// AddProductRequest is the request body for adding a product.
type AddProductRequest struct {
	Name     string  `json:"name" validate:"required,min=1,max=200" doc:"Product name"`
	Price    float64 `json:"price" validate:"gte=0" doc:"Product price"`
	ImageURL string  `json:"image_url,omitempty" validate:"omitempty,url" doc:"Product image URL (placeholder used when empty)"`
}

// AddProductInput wraps the add product request for Huma.
type AddProductInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
	Body       AddProductRequest
}

// ProductOutput wraps the product response for Huma.
type ProductOutput struct {
	Body ProductResponse
}

// UpdateProductRequest is the request body for updating a product.
type UpdateProductRequest struct {
	Name     *string  `json:"name,omitempty" validate:"omitempty,min=1,max=200" doc:"Product name"`
	Price    *float64 `json:"price,omitempty" validate:"omitempty,gte=0" doc:"Product price"`
	ImageURL *string  `json:"image_url,omitempty" validate:"omitempty,url" doc:"Product image URL"`
}

// UpdateProductInput wraps the update product request for Huma.
type UpdateProductInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
	ProductID  string `path:"productID" doc:"Product ID"`
	Body       UpdateProductRequest
}

// RemoveProductInput contains parameters for removing a product.
type RemoveProductInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
	ProductID  string `path:"productID" doc:"Product ID"`
}

// InviteCollaboratorRequest is the request body for inviting a collaborator.
type InviteCollaboratorRequest struct {
	Email string `json:"email" validate:"required,email,max=254" doc:"Invitee email address"`
}

// InviteCollaboratorInput wraps the invite request for Huma.
type InviteCollaboratorInput struct {
	WishlistID string `path:"wishlistID" doc:"Wishlist ID"`
	Body       InviteCollaboratorRequest
}

// === Handlers ===

func (s *Server) handleListWishlists(ctx context.Context, _ *struct{}) (*ListWishlistsOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	wishlists, err := s.services.Wishlist.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := make([]WishlistResponse, len(wishlists))
	for i, w := range wishlists {
		resp[i] = mapWishlistResponse(w)
	}

	return &ListWishlistsOutput{Body: ListWishlistsResponse{Wishlists: resp}}, nil
}

func (s *Server) handleCreateWishlist(ctx context.Context, input *CreateWishlistInput) (*WishlistOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.services.Wishlist.Create(ctx, userID, service.CreateWishlistRequest{
		Name:        input.Body.Name,
		Description: input.Body.Description,
	})
	if err != nil {
		return nil, err
	}

	return &WishlistOutput{Body: mapWishlistResponse(w)}, nil
}

func (s *Server) handleGetWishlist(ctx context.Context, input *GetWishlistInput) (*WishlistOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.services.Wishlist.Get(ctx, userID, input.WishlistID)
	if err != nil {
		return nil, err
	}

	return &WishlistOutput{Body: mapWishlistResponse(w)}, nil
}

func (s *Server) handleDeleteWishlist(ctx context.Context, input *DeleteWishlistInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Wishlist.Delete(ctx, userID, input.WishlistID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Wishlist deleted"}}, nil
}

func (s *Server) handleAddProduct(ctx context.Context, input *AddProductInput) (*ProductOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Wishlist.AddProduct(ctx, userID, input.WishlistID, service.AddProductRequest{
		Name:     input.Body.Name,
		Price:    input.Body.Price,
		ImageURL: input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Body: mapProductResponse(p)}, nil
}

func (s *Server) handleUpdateProduct(ctx context.Context, input *UpdateProductInput) (*ProductOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	p, err := s.services.Wishlist.UpdateProduct(ctx, userID, input.WishlistID, input.ProductID, service.UpdateProductRequest{
		Name:     input.Body.Name,
		Price:    input.Body.Price,
		ImageURL: input.Body.ImageURL,
	})
	if err != nil {
		return nil, err
	}

	return &ProductOutput{Body: mapProductResponse(p)}, nil
}

func (s *Server) handleRemoveProduct(ctx context.Context, input *RemoveProductInput) (*MessageOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Wishlist.RemoveProduct(ctx, userID, input.WishlistID, input.ProductID); err != nil {
		return nil, err
	}

	return &MessageOutput{Body: MessageResponse{Message: "Product removed"}}, nil
}

func (s *Server) handleInviteCollaborator(ctx context.Context, input *InviteCollaboratorInput) (*WishlistOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	w, err := s.services.Wishlist.InviteCollaborator(ctx, userID, input.WishlistID, service.InviteCollaboratorRequest{
		Email: input.Body.Email,
	})
	if err != nil {
		return nil, err
	}

	return &WishlistOutput{Body: mapWishlistResponse(w)}, nil
}

// === Helpers ===

func mapWishlistResponse(w *domain.Wishlist) WishlistResponse {
	products := make([]ProductResponse, len(w.Products))
	for i := range w.Products {
		products[i] = mapProductResponse(&w.Products[i])
	}

	collaborators := w.Collaborators
	if collaborators == nil {
		collaborators = []string{}
	}

	return WishlistResponse{
		ID:            w.ID,
		Name:          w.Name,
		Description:   w.Description,
		OwnerID:       w.OwnerID,
		Collaborators: collaborators,
		Products:      products,
		TotalValue:    w.TotalValue(),
		IsPublic:      w.IsPublic,
		CreatedAt:     w.CreatedAt,
		UpdatedAt:     w.UpdatedAt,
	}
}

func mapProductResponse(p *domain.Product) ProductResponse {
	var comments []CommentResponse
	if len(p.Comments) > 0 {
		comments = make([]CommentResponse, len(p.Comments))
		for i, c := range p.Comments {
			comments[i] = CommentResponse{
				ID:        c.ID,
				UserID:    c.UserID,
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			}
		}
	}

	return ProductResponse{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		ImageURL: p.ImageURL,
		AddedBy:  p.AddedBy,
		AddedAt:  p.AddedAt,
		Comments: comments,
	}
}
