package ordering

import (
	"context"

	"github.com/awestore/backend/internal/domain/catalog"
	"github.com/awestore/backend/internal/domain/ordering"
	"github.com/awestore/backend/internal/domain/shopping"
)

// TransactionScope provides transactional access to the repositories
// touched during checkout. Everything executed inside Execute commits
// or rolls back as one unit, so a failed stock decrement never leaves
// a half-placed order behind.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the checkout repositories
// within a transaction. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// Orders returns the order repository scoped to the current transaction
	Orders() ordering.OrderRepository
	// Products returns the product repository scoped to the current transaction
	Products() catalog.ProductRepository
	// Carts returns the cart repository scoped to the current transaction
	Carts() shopping.CartRepository
}

// NoOpTransactionScope runs the checkout function against plain
// repositories without a surrounding transaction. Useful in tests.
type NoOpTransactionScope struct {
	orderRepo   ordering.OrderRepository
	productRepo catalog.ProductRepository
	cartRepo    shopping.CartRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories
func NewNoOpTransactionScope(orderRepo ordering.OrderRepository, productRepo catalog.ProductRepository, cartRepo shopping.CartRepository) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		cartRepo:    cartRepo,
	}
}

// Execute runs fn directly without transaction semantics
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// Orders returns the order repository
func (s *NoOpTransactionScope) Orders() ordering.OrderRepository { return s.orderRepo }

// Products returns the product repository
func (s *NoOpTransactionScope) Products() catalog.ProductRepository { return s.productRepo }

// Carts returns the cart repository
func (s *NoOpTransactionScope) Carts() shopping.CartRepository { return s.cartRepo }

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
