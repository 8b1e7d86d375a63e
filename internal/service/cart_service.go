package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"maps"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
)

// CartOwner identifies whose cart is addressed. A signed-in user wins over the guest session.
type CartOwner struct {
	UserID    uint
	SessionID string
}

// CartItemInput is a product line added to a cart.
type CartItemInput struct {
	ProductID       uint                  `json:"productId" validate:"required"`
	Quantity        int                   `json:"quantity" validate:"required,gt=0"`
	SelectedOptions model.SelectedOptions `json:"selectedOptions"`
}

// CartLine is a cart item priced against the current catalog.
type CartLine struct {
	ID              uint                  `json:"id"`
	ProductID       uint                  `json:"productId"`
	ProductName     string                `json:"productName"`
	ProductSlug     string                `json:"productSlug"`
	Image           string                `json:"image,omitempty"`
	Quantity        int                   `json:"quantity"`
	SelectedOptions model.SelectedOptions `json:"selectedOptions"`
	UnitPrice       decimal.Decimal       `json:"unitPrice"`
	LineTotal       decimal.Decimal       `json:"lineTotal"`
	Stock           int                   `json:"stock"`
	Available       bool                  `json:"available"`
}

// CartView is what the storefront renders for a cart.
type CartView struct {
	ID        uint            `json:"id"`
	Items     []CartLine      `json:"items"`
	ItemCount int             `json:"itemCount"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartService manages user and guest carts.
type CartService interface {
	GetCart(ctx context.Context, owner CartOwner) (*CartView, error)
	AddItem(ctx context.Context, owner CartOwner, input CartItemInput) (*CartView, error)
	UpdateItem(ctx context.Context, owner CartOwner, itemID uint, quantity int) (*CartView, error)
	RemoveItem(ctx context.Context, owner CartOwner, itemID uint) (*CartView, error)
	Clear(ctx context.Context, owner CartOwner) (*CartView, error)
	MergeGuestCart(ctx context.Context, sessionID string, userID uint) error
}

type cartService struct {
	repo        repository.CartRepository
	productRepo repository.ProductRepository
}

// NewCartService creates a new cart service.
func NewCartService(repo repository.CartRepository, productRepo repository.ProductRepository) CartService {
	return &cartService{repo: repo, productRepo: productRepo}
}

func (s *cartService) findCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	switch {
	case owner.UserID != 0:
		return s.repo.FindByUserID(ctx, owner.UserID)
	case owner.SessionID != "":
		return s.repo.FindBySessionID(ctx, owner.SessionID)
	default:
		return nil, gorm.ErrRecordNotFound
	}
}

func (s *cartService) getOrCreateCart(ctx context.Context, owner CartOwner) (*model.Cart, error) {
	cart, err := s.findCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("find cart: %w", err)
	}

	cart = &model.Cart{}
	switch {
	case owner.UserID != 0:
		userID := owner.UserID
		cart.UserID = &userID
	case owner.SessionID != "":
		sessionID := owner.SessionID
		cart.SessionID = &sessionID
	default:
		return nil, errors.ErrForbidden
	}

	if err := s.repo.Create(ctx, cart); err != nil {
		// Lost a race against a concurrent request creating the same cart.
		if stderrors.Is(err, gorm.ErrDuplicatedKey) {
			return s.findCart(ctx, owner)
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	return cart, nil
}

func (s *cartService) GetCart(ctx context.Context, owner CartOwner) (*CartView, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartView(), nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	return buildCartView(cart), nil
}

func (s *cartService) AddItem(ctx context.Context, owner CartOwner, input CartItemInput) (*CartView, error) {
	if input.Quantity <= 0 {
		return nil, errors.ErrInvalidQuantity
	}

	product, err := s.productRepo.FindByID(ctx, input.ProductID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if !product.Active {
		return nil, errors.ErrProductUnavailable
	}
	_, selected, err := ResolveUnitPrice(product, input.SelectedOptions)
	if err != nil {
		return nil, err
	}

	cart, err := s.getOrCreateCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	if existing := findCartLine(cart.Items, product.ID, selected); existing != nil {
		quantity := existing.Quantity + input.Quantity
		if quantity > product.Stock {
			return nil, fmt.Errorf("%s: %w", product.Name, errors.ErrInsufficientStock)
		}
		existing.Quantity = quantity
		existing.Product = nil
		if err := s.repo.UpdateItem(ctx, existing); err != nil {
			return nil, fmt.Errorf("update cart item: %w", err)
		}
	} else {
		if input.Quantity > product.Stock {
			return nil, fmt.Errorf("%s: %w", product.Name, errors.ErrInsufficientStock)
		}
		item := &model.CartItem{
			CartID:          cart.ID,
			ProductID:       product.ID,
			Quantity:        input.Quantity,
			SelectedOptions: selected,
		}
		if err := s.repo.AddItem(ctx, item); err != nil {
			return nil, fmt.Errorf("add cart item: %w", err)
		}
	}

	return s.reload(ctx, owner)
}

func (s *cartService) UpdateItem(ctx context.Context, owner CartOwner, itemID uint, quantity int) (*CartView, error) {
	if quantity <= 0 {
		return nil, errors.ErrInvalidQuantity
	}
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	item, err := s.repo.FindItem(ctx, cart.ID, itemID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}

	product, err := s.productRepo.FindByID(ctx, item.ProductID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrProductNotFound
		}
		return nil, fmt.Errorf("find product: %w", err)
	}
	if quantity > product.Stock {
		return nil, fmt.Errorf("%s: %w", product.Name, errors.ErrInsufficientStock)
	}

	item.Quantity = quantity
	item.Product = nil
	if err := s.repo.UpdateItem(ctx, item); err != nil {
		return nil, fmt.Errorf("update cart item: %w", err)
	}
	return s.reload(ctx, owner)
}

func (s *cartService) RemoveItem(ctx context.Context, owner CartOwner, itemID uint) (*CartView, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if err := s.repo.DeleteItem(ctx, cart.ID, itemID); err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("delete cart item: %w", err)
	}
	return s.reload(ctx, owner)
}

func (s *cartService) Clear(ctx context.Context, owner CartOwner) (*CartView, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return emptyCartView(), nil
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}
	if err := s.repo.Clear(ctx, cart.ID); err != nil {
		return nil, fmt.Errorf("clear cart: %w", err)
	}
	view := emptyCartView()
	view.ID = cart.ID
	return view, nil
}

// MergeGuestCart moves the guest session's items into the user's cart and drops the guest cart.
// Merged quantities are capped at the product's current stock; a user's existing line never shrinks.
func (s *cartService) MergeGuestCart(ctx context.Context, sessionID string, userID uint) error {
	if sessionID == "" || userID == 0 {
		return nil
	}
	guest, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return fmt.Errorf("find guest cart: %w", err)
	}
	if len(guest.Items) == 0 {
		return s.repo.Delete(ctx, guest.ID)
	}

	userCart, err := s.getOrCreateCart(ctx, CartOwner{UserID: userID})
	if err != nil {
		return err
	}

	for _, item := range guest.Items {
		if item.Product == nil || !item.Product.Active {
			continue
		}
		stock := item.Product.Stock
		if existing := findCartLine(userCart.Items, item.ProductID, item.SelectedOptions); existing != nil {
			merged := min(existing.Quantity+item.Quantity, stock)
			if merged <= existing.Quantity {
				continue
			}
			existing.Quantity = merged
			existing.Product = nil
			if err := s.repo.UpdateItem(ctx, existing); err != nil {
				return fmt.Errorf("merge cart item: %w", err)
			}
			continue
		}
		quantity := min(item.Quantity, stock)
		if quantity <= 0 {
			continue
		}
		moved := &model.CartItem{
			CartID:          userCart.ID,
			ProductID:       item.ProductID,
			Quantity:        quantity,
			SelectedOptions: item.SelectedOptions,
		}
		if err := s.repo.AddItem(ctx, moved); err != nil {
			return fmt.Errorf("merge cart item: %w", err)
		}
		userCart.Items = append(userCart.Items, *moved)
	}

	if err := s.repo.Delete(ctx, guest.ID); err != nil {
		return fmt.Errorf("delete guest cart: %w", err)
	}
	return nil
}

func (s *cartService) reload(ctx context.Context, owner CartOwner) (*CartView, error) {
	cart, err := s.findCart(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}
	return buildCartView(cart), nil
}

func findCartLine(items []model.CartItem, productID uint, selected model.SelectedOptions) *model.CartItem {
	for i := range items {
		if items[i].ProductID == productID && maps.Equal(items[i].SelectedOptions, selected) {
			return &items[i]
		}
	}
	return nil
}

func emptyCartView() *CartView {
	return &CartView{Items: []CartLine{}, Subtotal: decimal.Zero}
}

// buildCartView prices every line against the current product data. Lines whose product went
// away, became inactive, lost stock or changed options stay visible but are marked unavailable
// and excluded from the subtotal.
func buildCartView(cart *model.Cart) *CartView {
	view := emptyCartView()
	view.ID = cart.ID

	for _, item := range cart.Items {
		line := CartLine{
			ID:              item.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			SelectedOptions: item.SelectedOptions,
			UnitPrice:       decimal.Zero,
			LineTotal:       decimal.Zero,
		}
		if p := item.Product; p != nil {
			line.ProductName = p.Name
			line.ProductSlug = p.Slug
			line.Stock = p.Stock
			line.UnitPrice = p.Price
			if len(p.Images) > 0 {
				line.Image = p.Images[0]
			}
			unit, _, err := ResolveUnitPrice(p, item.SelectedOptions)
			if err == nil {
				line.UnitPrice = unit
				line.Available = p.Active && item.Quantity <= p.Stock
			}
		}
		if line.Available {
			line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
			view.Subtotal = view.Subtotal.Add(line.LineTotal)
			view.ItemCount += line.Quantity
		}
		view.Items = append(view.Items, line)
	}
	return view
}
