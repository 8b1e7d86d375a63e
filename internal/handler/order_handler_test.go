package handler

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/service"
)

const checkoutBody = `{
	"items": [{"productId": 4, "quantity": 2, "selectedOptions": {"plan": "12m"}}],
	"contact": {"fullName": "Ann Lee", "email": "ann@example.com", "country": "DE"},
	"paymentMethod": "card",
	"card": {"number": "4242 4242 4242 4242", "expiry": "12/30", "cvv": "123"},
	"notes": "gift"
}`

func TestOrderHandler_Place(t *testing.T) {
	t.Run("maps the checkout steps to the service", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewOrderHandler(orders)

		placed := &model.Order{ID: 1, OrderNumber: "CRF-00001", Status: model.OrderStatusPending, Total: decimal.NewFromInt(40)}
		orders.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(in service.PlaceOrderInput) bool {
			return in.UserID == 5 &&
				len(in.Items) == 1 &&
				in.Items[0].ProductID == 4 &&
				in.Items[0].Quantity == 2 &&
				in.Items[0].SelectedOptions["plan"] == "12m" &&
				in.Contact.FullName == "Ann Lee" &&
				in.Contact.Country == "DE" &&
				in.PaymentMethod == model.PaymentCard &&
				in.Card != nil && in.Card.CVV == "123" &&
				in.Notes == "gift"
		})).Return(placed, nil)

		c, rec := newTestContext(http.MethodPost, "/api/orders", checkoutBody)
		withClaims(c, 5, "customer")
		require.NoError(t, h.Place(c))

		assert.Equal(t, http.StatusCreated, rec.Code)
		var got model.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "CRF-00001", got.OrderNumber)
		orders.AssertExpectations(t)
	})

	t.Run("requires authentication", func(t *testing.T) {
		h := NewOrderHandler(new(MockOrderService))

		c, _ := newTestContext(http.MethodPost, "/api/orders", checkoutBody)
		requireHTTPError(t, h.Place(c), http.StatusUnauthorized, "UNAUTHORIZED")
	})

	t.Run("validates the request", func(t *testing.T) {
		tests := []struct {
			name string
			body string
		}{
			{name: "no items", body: `{"items":[],"contact":{"fullName":"A","email":"a@example.com"},"paymentMethod":"paypal"}`},
			{name: "zero quantity", body: `{"items":[{"productId":4,"quantity":0}],"contact":{"fullName":"A","email":"a@example.com"},"paymentMethod":"paypal"}`},
			{name: "bad email", body: `{"items":[{"productId":4,"quantity":1}],"contact":{"fullName":"A","email":"nope"},"paymentMethod":"paypal"}`},
			{name: "unknown payment method", body: `{"items":[{"productId":4,"quantity":1}],"contact":{"fullName":"A","email":"a@example.com"},"paymentMethod":"cash"}`},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				orders := new(MockOrderService)
				h := NewOrderHandler(orders)

				c, _ := newTestContext(http.MethodPost, "/api/orders", tt.body)
				withClaims(c, 5, "customer")
				requireHTTPError(t, h.Place(c), http.StatusBadRequest, "VALIDATION_ERROR")
				orders.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("maps domain errors", func(t *testing.T) {
		tests := []struct {
			err    error
			status int
			code   string
		}{
			{errors.ErrInsufficientStock, http.StatusConflict, "INSUFFICIENT_STOCK"},
			{errors.ErrInvalidCard, http.StatusBadRequest, "INVALID_CARD"},
			{errors.ErrProductNotFound, http.StatusNotFound, "PRODUCT_NOT_FOUND"},
			{errors.ErrEmptyOrder, http.StatusBadRequest, "EMPTY_ORDER"},
		}

		for _, tt := range tests {
			t.Run(tt.code, func(t *testing.T) {
				orders := new(MockOrderService)
				orders.On("PlaceOrder", mock.Anything, mock.Anything).Return(nil, tt.err)
				h := NewOrderHandler(orders)

				c, _ := newTestContext(http.MethodPost, "/api/orders", checkoutBody)
				withClaims(c, 5, "customer")
				requireHTTPError(t, h.Place(c), tt.status, tt.code)
			})
		}
	})
}

func TestOrderHandler_Mine(t *testing.T) {
	orders := new(MockOrderService)
	h := NewOrderHandler(orders)

	orders.On("ListMine", mock.Anything, uint(5), 2, 10).Return(&service.OrderPage{Page: 2, Limit: 10}, nil)
	c, rec := newTestContext(http.MethodGet, "/api/orders?page=2&limit=10", "")
	withClaims(c, 5, "customer")
	require.NoError(t, h.ListMine(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	orders.On("GetMine", mock.Anything, uint(5), "CRF-00009").Return(nil, errors.ErrOrderNotFound)
	c, _ = newTestContext(http.MethodGet, "/api/orders/CRF-00009", "")
	withParams(c, "number", "CRF-00009")
	withClaims(c, 5, "customer")
	requireHTTPError(t, h.GetMine(c), http.StatusNotFound, "ORDER_NOT_FOUND")

	orders.On("CancelMine", mock.Anything, uint(5), "CRF-00002").Return(nil, errors.ErrInvalidTransition)
	c, _ = newTestContext(http.MethodPost, "/api/orders/CRF-00002/cancel", "")
	withParams(c, "number", "CRF-00002")
	withClaims(c, 5, "customer")
	requireHTTPError(t, h.CancelMine(c), http.StatusConflict, "INVALID_TRANSITION")

	orders.AssertExpectations(t)
}

func TestAdminOrderHandler(t *testing.T) {
	t.Run("update status passes the actor", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewAdminOrderHandler(orders)
		orders.On("UpdateStatus", mock.Anything, uint(1), uint(12), model.OrderStatusProcessing, "paid").
			Return(&model.Order{ID: 12, Status: model.OrderStatusProcessing}, nil)

		c, rec := newTestContext(http.MethodPatch, "/api/admin/orders/12/status", `{"status":"processing","note":"paid"}`)
		withParams(c, "id", "12")
		withClaims(c, 1, "admin")
		require.NoError(t, h.UpdateStatus(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		orders.AssertExpectations(t)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		h := NewAdminOrderHandler(new(MockOrderService))

		c, _ := newTestContext(http.MethodPatch, "/api/admin/orders/12/status", `{"status":"shipped"}`)
		withParams(c, "id", "12")
		withClaims(c, 1, "admin")
		requireHTTPError(t, h.UpdateStatus(c), http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("bad id is rejected", func(t *testing.T) {
		h := NewAdminOrderHandler(new(MockOrderService))

		c, _ := newTestContext(http.MethodGet, "/api/admin/orders/abc", "")
		withParams(c, "id", "abc")
		requireHTTPError(t, h.Get(c), http.StatusBadRequest, "INVALID_ID")
	})

	t.Run("provision forwards the assets", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewAdminOrderHandler(orders)
		assets := []model.DeliveredAsset{{Type: model.AssetRedeemCode, Code: "ABCD-EFGH"}}
		orders.On("ProvisionItem", mock.Anything, uint(1), uint(12), uint(30), assets).
			Return(&model.Order{ID: 12, Status: model.OrderStatusCompleted}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/admin/orders/12/items/30/assets", `{"assets":[{"type":"redeem_code","code":"ABCD-EFGH"}]}`)
		withParams(c, "id", "12", "itemId", "30")
		withClaims(c, 1, "admin")
		require.NoError(t, h.Provision(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		orders.AssertExpectations(t)
	})

	t.Run("list parses filters", func(t *testing.T) {
		orders := new(MockOrderService)
		h := NewAdminOrderHandler(orders)
		orders.On("List", mock.Anything, service.OrderQuery{Status: model.OrderStatusPending, UserID: 8, Page: 1}).
			Return(&service.OrderPage{}, nil)

		c, rec := newTestContext(http.MethodGet, "/api/admin/orders?status=pending&userId=8", "")
		require.NoError(t, h.List(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		orders.AssertExpectations(t)
	})
}
