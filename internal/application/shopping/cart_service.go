package shopping

import (
	"context"
	"errors"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/shared"
	"github.com/awestore/backend/internal/domain/shopping"
	"github.com/google/uuid"
)

// CartService handles shopping cart operations. A customer's cart is
// created lazily on first access.
type CartService struct {
	cartRepo    shopping.CartRepository
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartRepo shopping.CartRepository, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
	}
}

// Get returns the customer's cart, creating an empty one if none exists yet
func (s *CartService) Get(ctx context.Context, customerID uuid.UUID) (*CartResponse, error) {
	cart, err := s.findOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	response := ToCartResponse(cart)
	return &response, nil
}

// AddItem puts a product into the cart. The product's name, price and
// image are snapshotted from the catalog at add time. Adding a product
// already in the cart merges the quantities.
func (s *CartService) AddItem(ctx context.Context, customerID uuid.UUID, req AddCartItemRequest) (*CartResponse, error) {
	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsAvailable {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "Product "+product.Name+" is not available")
	}

	cart, err := s.findOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	quantity := req.Quantity
	if existing := cart.Item(req.ProductID); existing != nil {
		quantity += existing.Quantity
	}
	if !product.CanFulfill(quantity) {
		return nil, shared.ErrInsufficientStock
	}

	image := ""
	if len(product.Images) > 0 {
		image = product.Images[0]
	}
	if err := cart.AddItem(product.ID, product.Name, image, product.Price, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// UpdateQuantity sets a line's quantity. Quantity zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, customerID, productID uuid.UUID, req UpdateCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Quantity > 0 {
		product, err := s.productRepo.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if !product.CanFulfill(req.Quantity) {
			return nil, shared.ErrInsufficientStock
		}
	}

	if err := cart.UpdateQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// UpdateSelection toggles whether a line participates in checkout
func (s *CartService) UpdateSelection(ctx context.Context, customerID, productID uuid.UUID, req UpdateSelectionRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := cart.UpdateSelection(productID, req.Selected); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// SelectAll toggles the selection of every line
func (s *CartService) SelectAll(ctx context.Context, customerID uuid.UUID, req SelectAllRequest) (*CartResponse, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.SelectAll(req.Selected)

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// RemoveItem removes a line from the cart. A missing cart reads as an
// empty one, so the caller sees the same not-found error as for an
// unknown line.
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.findOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

// Clear empties the cart. Clearing a cart that was never created
// succeeds and answers an empty cart.
func (s *CartService) Clear(ctx context.Context, customerID uuid.UUID) (*CartResponse, error) {
	cart, err := s.findOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	cart.Clear()

	if err := s.cartRepo.Save(ctx, cart); err != nil {
		return nil, err
	}

	response := ToCartResponse(cart)
	return &response, nil
}

func (s *CartService) findOrCreate(ctx context.Context, customerID uuid.UUID) (*shopping.Cart, error) {
	cart, err := s.cartRepo.FindByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	return shopping.NewCart(customerID)
}
