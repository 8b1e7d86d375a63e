package handler

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/service"
)

func TestCartHandler_Owner(t *testing.T) {
	t.Run("guest uses the session", func(t *testing.T) {
		carts := new(MockCartService)
		h := NewCartHandler(carts)
		carts.On("GetCart", mock.Anything, service.CartOwner{SessionID: "sess-1"}).Return(&service.CartView{}, nil)

		c, rec := newTestContext(http.MethodGet, "/api/cart", "")
		c.Set(SessionContextKey, "sess-1")
		require.NoError(t, h.Get(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		carts.AssertExpectations(t)
	})

	t.Run("signed in user uses the account cart", func(t *testing.T) {
		carts := new(MockCartService)
		h := NewCartHandler(carts)
		carts.On("GetCart", mock.Anything, service.CartOwner{UserID: 5}).Return(&service.CartView{}, nil)

		c, _ := newTestContext(http.MethodGet, "/api/cart", "")
		c.Set(SessionContextKey, "sess-1")
		withClaims(c, 5, "customer")
		require.NoError(t, h.Get(c))

		carts.AssertExpectations(t)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("adds the line", func(t *testing.T) {
		carts := new(MockCartService)
		h := NewCartHandler(carts)
		input := service.CartItemInput{ProductID: 4, Quantity: 2, SelectedOptions: model.SelectedOptions{"plan": "1m"}}
		carts.On("AddItem", mock.Anything, service.CartOwner{SessionID: "sess-1"}, input).Return(&service.CartView{ItemCount: 2}, nil)

		c, rec := newTestContext(http.MethodPost, "/api/cart/items", `{"productId":4,"quantity":2,"selectedOptions":{"plan":"1m"}}`)
		c.Set(SessionContextKey, "sess-1")
		require.NoError(t, h.AddItem(c))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"itemCount":2`)
	})

	t.Run("quantity above stock conflicts", func(t *testing.T) {
		carts := new(MockCartService)
		h := NewCartHandler(carts)
		carts.On("AddItem", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.ErrInsufficientStock)

		c, _ := newTestContext(http.MethodPost, "/api/cart/items", `{"productId":4,"quantity":50}`)
		c.Set(SessionContextKey, "sess-1")
		requireHTTPError(t, h.AddItem(c), http.StatusConflict, "INSUFFICIENT_STOCK")
	})

	t.Run("missing product id is invalid", func(t *testing.T) {
		h := NewCartHandler(new(MockCartService))

		c, _ := newTestContext(http.MethodPost, "/api/cart/items", `{"quantity":1}`)
		requireHTTPError(t, h.AddItem(c), http.StatusBadRequest, "VALIDATION_ERROR")
	})
}

func TestCartHandler_UpdateAndRemove(t *testing.T) {
	carts := new(MockCartService)
	h := NewCartHandler(carts)
	owner := service.CartOwner{UserID: 5}
	carts.On("UpdateItem", mock.Anything, owner, uint(11), 3).Return(&service.CartView{}, nil)
	carts.On("RemoveItem", mock.Anything, owner, uint(12)).Return(nil, errors.ErrCartItemNotFound)

	c, _ := newTestContext(http.MethodPut, "/api/cart/items/11", `{"quantity":3}`)
	withParams(c, "id", "11")
	withClaims(c, 5, "customer")
	require.NoError(t, h.UpdateItem(c))

	c, _ = newTestContext(http.MethodDelete, "/api/cart/items/12", "")
	withParams(c, "id", "12")
	withClaims(c, 5, "customer")
	requireHTTPError(t, h.RemoveItem(c), http.StatusNotFound, "CART_ITEM_NOT_FOUND")

	carts.AssertExpectations(t)
}
