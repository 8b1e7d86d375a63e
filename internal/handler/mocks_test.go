package handler

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"digistore/internal/model"
	"digistore/internal/service"
)

// MockAuthService is a mock implementation of service.AuthService.
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockAuthService) Login(ctx context.Context, email, password string) (string, string, *model.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(2) == nil {
		return args.String(0), args.String(1), nil, args.Error(3)
	}
	return args.String(0), args.String(1), args.Get(2).(*model.User), args.Error(3)
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	args := m.Called(ctx, refreshToken)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) Logout(ctx context.Context, refreshToken, accessTokenID string, accessExpiresAt time.Time) error {
	args := m.Called(ctx, refreshToken, accessTokenID, accessExpiresAt)
	return args.Error(0)
}

func (m *MockAuthService) EnsureAdmin(ctx context.Context, name, email, password string) (*model.User, error) {
	args := m.Called(ctx, name, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

// MockUserService is a mock implementation of service.UserService.
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUser(ctx context.Context, id uint) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context, page, limit int) (*service.UserPage, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UserPage), args.Error(1)
}

func (m *MockUserService) UpdateRole(ctx context.Context, actorID, id uint, role model.Role) (*model.User, error) {
	args := m.Called(ctx, actorID, id, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, actorID, id uint) error {
	args := m.Called(ctx, actorID, id)
	return args.Error(0)
}

// MockCartService is a mock implementation of service.CartService.
type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) cartResult(args mock.Arguments) (*service.CartView, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.CartView), args.Error(1)
}

func (m *MockCartService) GetCart(ctx context.Context, owner service.CartOwner) (*service.CartView, error) {
	return m.cartResult(m.Called(ctx, owner))
}

func (m *MockCartService) AddItem(ctx context.Context, owner service.CartOwner, input service.CartItemInput) (*service.CartView, error) {
	return m.cartResult(m.Called(ctx, owner, input))
}

func (m *MockCartService) UpdateItem(ctx context.Context, owner service.CartOwner, itemID uint, quantity int) (*service.CartView, error) {
	return m.cartResult(m.Called(ctx, owner, itemID, quantity))
}

func (m *MockCartService) RemoveItem(ctx context.Context, owner service.CartOwner, itemID uint) (*service.CartView, error) {
	return m.cartResult(m.Called(ctx, owner, itemID))
}

func (m *MockCartService) Clear(ctx context.Context, owner service.CartOwner) (*service.CartView, error) {
	return m.cartResult(m.Called(ctx, owner))
}

func (m *MockCartService) MergeGuestCart(ctx context.Context, sessionID string, userID uint) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

// MockOrderService is a mock implementation of service.OrderService.
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) orderResult(args mock.Arguments) (*model.Order, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderService) pageResult(args mock.Arguments) (*service.OrderPage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.OrderPage), args.Error(1)
}

func (m *MockOrderService) PlaceOrder(ctx context.Context, input service.PlaceOrderInput) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, input))
}

func (m *MockOrderService) ListMine(ctx context.Context, userID uint, page, limit int) (*service.OrderPage, error) {
	return m.pageResult(m.Called(ctx, userID, page, limit))
}

func (m *MockOrderService) GetMine(ctx context.Context, userID uint, number string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, userID, number))
}

func (m *MockOrderService) CancelMine(ctx context.Context, userID uint, number string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, userID, number))
}

func (m *MockOrderService) List(ctx context.Context, query service.OrderQuery) (*service.OrderPage, error) {
	return m.pageResult(m.Called(ctx, query))
}

func (m *MockOrderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, id))
}

func (m *MockOrderService) UpdateStatus(ctx context.Context, actorID, id uint, status model.OrderStatus, note string) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, actorID, id, status, note))
}

func (m *MockOrderService) ProvisionItem(ctx context.Context, actorID, orderID, itemID uint, assets []model.DeliveredAsset) (*model.Order, error) {
	return m.orderResult(m.Called(ctx, actorID, orderID, itemID, assets))
}

func (m *MockOrderService) Logs(ctx context.Context, orderID uint) ([]model.OrderStatusLog, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.OrderStatusLog), args.Error(1)
}

func (m *MockOrderService) CancelStalePending(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockOrderService) RunSweeper(ctx context.Context, interval time.Duration) {
	m.Called(ctx, interval)
}

func (m *MockOrderService) Close() {
	m.Called()
}

// MockProductService is a mock implementation of service.ProductService.
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) productResult(args mock.Arguments) (*model.Product, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Product), args.Error(1)
}

func (m *MockProductService) List(ctx context.Context, query service.ProductQuery) (*service.ProductPage, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ProductPage), args.Error(1)
}

func (m *MockProductService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	return m.productResult(m.Called(ctx, slug))
}

func (m *MockProductService) GetByID(ctx context.Context, id uint) (*model.Product, error) {
	return m.productResult(m.Called(ctx, id))
}

func (m *MockProductService) Create(ctx context.Context, input service.ProductInput) (*model.Product, error) {
	return m.productResult(m.Called(ctx, input))
}

func (m *MockProductService) Update(ctx context.Context, id uint, input service.ProductInput) (*model.Product, error) {
	return m.productResult(m.Called(ctx, id, input))
}

func (m *MockProductService) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductService) ReplaceOptions(ctx context.Context, id uint, options []model.ProductOption) (*model.Product, error) {
	return m.productResult(m.Called(ctx, id, options))
}

func (m *MockProductService) QuotePrice(ctx context.Context, id uint, selected model.SelectedOptions) (*service.PriceQuote, error) {
	args := m.Called(ctx, id, selected)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PriceQuote), args.Error(1)
}
