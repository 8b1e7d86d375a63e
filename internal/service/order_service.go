package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"digistore/internal/cache"
	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/repository"
)

const (
	logBatchSize      = 10
	logFlushInterval  = time.Second
	logWriteTimeout   = 5 * time.Second
	sweepBatchSize    = 100
	placementAttempts = 3
)

var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:    {model.OrderStatusProcessing, model.OrderStatusCancelled},
	model.OrderStatusProcessing: {model.OrderStatusCompleted, model.OrderStatusCancelled},
	model.OrderStatusCompleted:  {model.OrderStatusRefunded},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to model.OrderStatus) bool {
	return slices.Contains(orderTransitions[from], to)
}

// OrderLineInput is one requested product line of a checkout.
type OrderLineInput struct {
	ProductID       uint
	Quantity        int
	SelectedOptions model.SelectedOptions
}

// PlaceOrderInput collects the checkout steps: items, contact information and payment selection.
type PlaceOrderInput struct {
	UserID        uint
	Items         []OrderLineInput
	Contact       model.ContactInfo
	PaymentMethod model.PaymentMethod
	Card          *CardDetails
	Notes         string
}

// OrderQuery filters the admin order listing.
type OrderQuery struct {
	Status model.OrderStatus
	UserID uint
	Page   int
	Limit  int
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Orders []model.Order `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// OrderService handles checkout and the order lifecycle.
type OrderService interface {
	PlaceOrder(ctx context.Context, input PlaceOrderInput) (*model.Order, error)
	ListMine(ctx context.Context, userID uint, page, limit int) (*OrderPage, error)
	GetMine(ctx context.Context, userID uint, number string) (*model.Order, error)
	CancelMine(ctx context.Context, userID uint, number string) (*model.Order, error)
	List(ctx context.Context, query OrderQuery) (*OrderPage, error)
	Get(ctx context.Context, id uint) (*model.Order, error)
	UpdateStatus(ctx context.Context, actorID, id uint, status model.OrderStatus, note string) (*model.Order, error)
	ProvisionItem(ctx context.Context, actorID, orderID, itemID uint, assets []model.DeliveredAsset) (*model.Order, error)
	Logs(ctx context.Context, orderID uint) ([]model.OrderStatusLog, error)
	CancelStalePending(ctx context.Context) (int, error)
	RunSweeper(ctx context.Context, interval time.Duration)
	Close()
}

type orderService struct {
	repo       repository.OrderRepository
	logRepo    repository.OrderLogRepository
	cartRepo   repository.CartRepository
	cache      *cache.Client
	payments   *PaymentValidator
	pendingTTL time.Duration
	now        func() time.Time

	// Channel for async status logging
	logChannel chan model.OrderStatusLog
	mu         sync.RWMutex
	closed     bool
	stopWorker context.CancelFunc
	workerDone chan struct{}
	closeOnce  sync.Once
}

// NewOrderService creates a new order service. Pending orders older than pendingTTL are
// cancelled by CancelStalePending; a zero TTL disables expiry.
func NewOrderService(
	repo repository.OrderRepository,
	logRepo repository.OrderLogRepository,
	cartRepo repository.CartRepository,
	cache *cache.Client,
	pendingTTL time.Duration,
) OrderService {
	ctx, cancel := context.WithCancel(context.Background())
	s := &orderService{
		repo:       repo,
		logRepo:    logRepo,
		cartRepo:   cartRepo,
		cache:      cache,
		payments:   NewPaymentValidator(),
		pendingTTL: pendingTTL,
		now:        time.Now,
		logChannel: make(chan model.OrderStatusLog, 100),
		stopWorker: cancel,
		workerDone: make(chan struct{}),
	}

	// Start async log worker
	go s.logWorker(ctx)

	return s
}

// logWorker writes status logs in batches. On shutdown it drains the channel and flushes.
func (s *orderService) logWorker(ctx context.Context) {
	defer close(s.workerDone)

	batch := make([]model.OrderStatusLog, 0, logBatchSize)
	ticker := time.NewTicker(logFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		writeCtx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
		defer cancel()
		if err := s.logRepo.CreateBatch(writeCtx, batch); err != nil {
			log.Printf("order log: write %d entries: %v", len(batch), err)
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-s.logChannel:
			batch = append(batch, entry)
			if len(batch) >= logBatchSize {
				flush()
			}
		case <-ticker.C:
			// Flush batch periodically
			flush()
		case <-ctx.Done():
			for {
				select {
				case entry := <-s.logChannel:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// recordStatus queues a status log entry, writing synchronously when the queue is full or closed.
func (s *orderService) recordStatus(orderID uint, from, to model.OrderStatus, actorID *uint, note string) {
	entry := model.OrderStatusLog{
		OrderID:    orderID,
		FromStatus: from,
		ToStatus:   to,
		ActorID:    actorID,
		Note:       note,
		CreatedAt:  s.now(),
	}

	s.mu.RLock()
	if !s.closed {
		select {
		case s.logChannel <- entry:
			s.mu.RUnlock()
			return
		default:
		}
	}
	s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(context.Background(), logWriteTimeout)
	defer cancel()
	if err := s.logRepo.Create(ctx, &entry); err != nil {
		log.Printf("order log: write entry for order %d: %v", orderID, err)
	}
}

// Close stops the log worker after flushing queued entries.
func (s *orderService) Close() {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()
		s.stopWorker()
		<-s.workerDone
	})
}

// PlaceOrder validates payment, then creates the order and decrements stock in one transaction.
// A concurrent checkout taking the same order number is retried.
func (s *orderService) PlaceOrder(ctx context.Context, input PlaceOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, errors.ErrEmptyOrder
	}
	for _, line := range input.Items {
		if line.Quantity <= 0 {
			return nil, errors.ErrInvalidQuantity
		}
	}

	reference, err := s.payments.Validate(input.PaymentMethod, input.Card)
	if err != nil {
		return nil, err
	}

	var order *model.Order
	for attempt := 1; ; attempt++ {
		order, err = s.placeOnce(ctx, input, reference)
		if err == nil {
			break
		}
		if !stderrors.Is(err, gorm.ErrDuplicatedKey) || attempt >= placementAttempts {
			return nil, err
		}
	}

	userID := input.UserID
	s.recordStatus(order.ID, "", model.OrderStatusPending, &userID, "order placed")

	if cart, err := s.cartRepo.FindByUserID(ctx, input.UserID); err == nil {
		if err := s.cartRepo.Clear(ctx, cart.ID); err != nil {
			log.Printf("order %s: clear cart %d: %v", order.OrderNumber, cart.ID, err)
		}
	} else if !stderrors.Is(err, gorm.ErrRecordNotFound) {
		log.Printf("order %s: find cart: %v", order.OrderNumber, err)
	}

	invalidateCatalog(ctx, s.cache)
	return order, nil
}

func (s *orderService) placeOnce(ctx context.Context, input PlaceOrderInput, reference string) (*model.Order, error) {
	var order *model.Order
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		// Lock product rows in ascending id order so concurrent checkouts cannot deadlock.
		ids := orderProductIDs(input.Items)
		products := make(map[uint]*model.Product, len(ids))
		for _, id := range ids {
			product, err := repo.FindProductForUpdate(ctx, id)
			if err != nil {
				if stderrors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("product %d: %w", id, errors.ErrProductNotFound)
				}
				return fmt.Errorf("lock product: %w", err)
			}
			if !product.Active {
				return fmt.Errorf("%s: %w", product.Name, errors.ErrProductUnavailable)
			}
			products[id] = product
		}

		requested := make(map[uint]int, len(ids))
		subtotal := decimal.Zero
		items := make([]model.OrderItem, 0, len(input.Items))
		for _, line := range input.Items {
			product := products[line.ProductID]
			unit, selected, err := ResolveUnitPrice(product, line.SelectedOptions)
			if err != nil {
				return fmt.Errorf("%s: %w", product.Name, err)
			}
			requested[product.ID] += line.Quantity
			if requested[product.ID] > product.Stock {
				return fmt.Errorf("%s: %w", product.Name, errors.ErrInsufficientStock)
			}

			lineTotal := unit.Mul(decimal.NewFromInt(int64(line.Quantity)))
			subtotal = subtotal.Add(lineTotal)
			items = append(items, model.OrderItem{
				ProductID:       product.ID,
				ProductName:     product.Name,
				UnitPrice:       unit,
				Quantity:        line.Quantity,
				LineTotal:       lineTotal,
				SelectedOptions: selected,
			})
		}
		if !subtotal.IsPositive() {
			return errors.ErrEmptyOrder
		}

		last, err := repo.LastOrderNumberForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("read last order number: %w", err)
		}

		order = &model.Order{
			OrderNumber:      NextOrderNumber(last),
			UserID:           input.UserID,
			Status:           model.OrderStatusPending,
			Subtotal:         subtotal,
			Total:            subtotal,
			PaymentMethod:    input.PaymentMethod,
			PaymentReference: reference,
			Contact:          input.Contact,
			Notes:            strings.TrimSpace(input.Notes),
			Items:            items,
		}
		if err := repo.Create(ctx, order); err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		for _, id := range ids {
			ok, err := repo.DecrementStock(ctx, id, requested[id])
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				return fmt.Errorf("%s: %w", products[id].Name, errors.ErrInsufficientStock)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func orderProductIDs(lines []OrderLineInput) []uint {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		if !slices.Contains(ids, line.ProductID) {
			ids = append(ids, line.ProductID)
		}
	}
	slices.Sort(ids)
	return ids
}

func (s *orderService) ListMine(ctx context.Context, userID uint, page, limit int) (*OrderPage, error) {
	return s.List(ctx, OrderQuery{UserID: userID, Page: page, Limit: limit})
}

func (s *orderService) GetMine(ctx context.Context, userID uint, number string) (*model.Order, error) {
	order, err := s.repo.FindByNumber(ctx, number)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	// Other customers' orders are indistinguishable from missing ones.
	if order.UserID != userID {
		return nil, errors.ErrOrderNotFound
	}
	return order, nil
}

// CancelMine lets a customer cancel their own order while it is still pending.
func (s *orderService) CancelMine(ctx context.Context, userID uint, number string) (*model.Order, error) {
	order, err := s.GetMine(ctx, userID, number)
	if err != nil {
		return nil, err
	}
	cancelled, err := s.transition(ctx, &userID, order.ID, model.OrderStatusCancelled, "cancelled by customer", requirePending)
	if err != nil {
		return nil, err
	}
	return cancelled, nil
}

func (s *orderService) List(ctx context.Context, query OrderQuery) (*OrderPage, error) {
	page, limit := normalizePage(query.Page, query.Limit)
	orders, total, err := s.repo.List(ctx, repository.OrderFilter{
		Status: query.Status,
		UserID: query.UserID,
		Offset: (page - 1) * limit,
		Limit:  limit,
	})
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return &OrderPage{Orders: orders, Total: total, Page: page, Limit: limit}, nil
}

func (s *orderService) Get(ctx context.Context, id uint) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.ErrOrderNotFound
		}
		return nil, fmt.Errorf("find order: %w", err)
	}
	return order, nil
}

func (s *orderService) UpdateStatus(ctx context.Context, actorID, id uint, status model.OrderStatus, note string) (*model.Order, error) {
	return s.transition(ctx, &actorID, id, status, note, nil)
}

func requirePending(order *model.Order) error {
	if order.Status != model.OrderStatusPending {
		return fmt.Errorf("order is %s: %w", order.Status, errors.ErrInvalidTransition)
	}
	return nil
}

// transition moves an order to a new status under a row lock. Cancelling returns the ordered
// quantities to stock in the same transaction.
func (s *orderService) transition(
	ctx context.Context,
	actorID *uint,
	orderID uint,
	to model.OrderStatus,
	note string,
	check func(*model.Order) error,
) (*model.Order, error) {
	var from model.OrderStatus
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if check != nil {
			if err := check(order); err != nil {
				return err
			}
		}
		if !CanTransition(order.Status, to) {
			return fmt.Errorf("%s to %s: %w", order.Status, to, errors.ErrInvalidTransition)
		}

		if to == model.OrderStatusCancelled {
			for _, item := range order.Items {
				if err := repo.RestoreStock(ctx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("restore stock: %w", err)
				}
			}
		}

		from = order.Status
		return repo.UpdateStatus(ctx, order.ID, to)
	})
	if err != nil {
		return nil, err
	}

	s.recordStatus(orderID, from, to, actorID, note)
	if to == model.OrderStatusCancelled {
		invalidateCatalog(ctx, s.cache)
	}
	return s.Get(ctx, orderID)
}

// ProvisionItem attaches delivered assets to an item of a processing order.
// The order completes once every item is delivered.
func (s *orderService) ProvisionItem(ctx context.Context, actorID, orderID, itemID uint, assets []model.DeliveredAsset) (*model.Order, error) {
	if err := validateAssets(assets); err != nil {
		return nil, err
	}

	completed := false
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, repo repository.OrderRepository) error {
		order, err := repo.FindByIDForUpdate(ctx, orderID)
		if err != nil {
			if stderrors.Is(err, gorm.ErrRecordNotFound) {
				return errors.ErrOrderNotFound
			}
			return fmt.Errorf("lock order: %w", err)
		}
		if order.Status != model.OrderStatusProcessing {
			return errors.ErrOrderNotProvisionable
		}

		idx := slices.IndexFunc(order.Items, func(item model.OrderItem) bool { return item.ID == itemID })
		if idx < 0 {
			return errors.ErrOrderItemNotFound
		}

		deliveredAt := s.now()
		item := &order.Items[idx]
		item.Assets = assets
		item.DeliveredAt = &deliveredAt
		if err := repo.UpdateItem(ctx, item); err != nil {
			return fmt.Errorf("save assets: %w", err)
		}

		for i := range order.Items {
			if !order.Items[i].Delivered() {
				return nil
			}
		}
		completed = true
		return repo.UpdateStatus(ctx, order.ID, model.OrderStatusCompleted)
	})
	if err != nil {
		return nil, err
	}

	if completed {
		s.recordStatus(orderID, model.OrderStatusProcessing, model.OrderStatusCompleted, &actorID, "all items delivered")
	}
	return s.Get(ctx, orderID)
}

func validateAssets(assets []model.DeliveredAsset) error {
	if len(assets) == 0 {
		return fmt.Errorf("no assets given: %w", errors.ErrInvalidAsset)
	}
	for i, asset := range assets {
		switch asset.Type {
		case model.AssetAccount:
			if strings.TrimSpace(asset.Username) == "" || asset.Password == "" {
				return fmt.Errorf("asset %d: account needs username and password: %w", i, errors.ErrInvalidAsset)
			}
		case model.AssetRedeemCode:
			if strings.TrimSpace(asset.Code) == "" {
				return fmt.Errorf("asset %d: redeem code is empty: %w", i, errors.ErrInvalidAsset)
			}
		default:
			return fmt.Errorf("asset %d: unknown type %q: %w", i, asset.Type, errors.ErrInvalidAsset)
		}
	}
	return nil
}

func (s *orderService) Logs(ctx context.Context, orderID uint) ([]model.OrderStatusLog, error) {
	if _, err := s.Get(ctx, orderID); err != nil {
		return nil, err
	}
	logs, err := s.logRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list order logs: %w", err)
	}
	return logs, nil
}

// CancelStalePending cancels pending orders older than the payment window and returns how many.
func (s *orderService) CancelStalePending(ctx context.Context) (int, error) {
	if s.pendingTTL <= 0 {
		return 0, nil
	}
	orders, err := s.repo.ListStalePending(ctx, s.now().Add(-s.pendingTTL), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("list stale orders: %w", err)
	}

	cancelled := 0
	for _, order := range orders {
		_, err := s.transition(ctx, nil, order.ID, model.OrderStatusCancelled, "payment window expired", requirePending)
		if err != nil {
			// Moved on since it was listed.
			if stderrors.Is(err, errors.ErrInvalidTransition) {
				continue
			}
			log.Printf("order sweeper: cancel %s: %v", order.OrderNumber, err)
			continue
		}
		cancelled++
	}
	return cancelled, nil
}

// RunSweeper periodically cancels stale pending orders until ctx is done.
func (s *orderService) RunSweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 || s.pendingTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n, err := s.CancelStalePending(ctx)
			if err != nil {
				log.Printf("order sweeper: %v", err)
				continue
			}
			if n > 0 {
				log.Printf("order sweeper: cancelled %d stale pending orders", n)
			}
		case <-ctx.Done():
			return
		}
	}
}
