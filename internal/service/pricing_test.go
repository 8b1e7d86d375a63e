package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"digistore/internal/errors"
	"digistore/internal/model"
)

func optionedProduct() *model.Product {
	return &model.Product{
		ID:    1,
		Name:  "Streaming Premium",
		Price: decimal.RequireFromString("10.00"),
		Options: []model.ProductOption{
			{
				Key: "plan", Label: "Plan", Type: model.OptionSelect, Required: true,
				Choices: []model.OptionChoice{
					{Label: "1 month", Value: "1m", PriceModifier: decimal.Zero},
					{Label: "12 months", Value: "12m", PriceModifier: decimal.RequireFromString("80.50")},
				},
			},
			{
				Key: "warranty", Label: "Extended warranty", Type: model.OptionCheckbox,
				Choices: []model.OptionChoice{{Label: "Yes", Value: "true", PriceModifier: decimal.RequireFromString("2.25")}},
			},
			{Key: "username", Label: "Account username", Type: model.OptionInput},
		},
	}
}

func TestResolveUnitPrice(t *testing.T) {
	tests := []struct {
		name       string
		selected   model.SelectedOptions
		wantPrice  string
		wantErr    error
		wantStored model.SelectedOptions
	}{
		{
			name:       "base choice",
			selected:   model.SelectedOptions{"plan": "1m"},
			wantPrice:  "10",
			wantStored: model.SelectedOptions{"plan": "1m", "warranty": "false"},
		},
		{
			name:       "select and checkbox modifiers add up",
			selected:   model.SelectedOptions{"plan": "12m", "warranty": "true", "username": "  neo  "},
			wantPrice:  "92.75",
			wantStored: model.SelectedOptions{"plan": "12m", "warranty": "true", "username": "neo"},
		},
		{
			name:     "missing required option",
			selected: model.SelectedOptions{"warranty": "true"},
			wantErr:  errors.ErrInvalidOption,
		},
		{
			name:     "unknown choice value",
			selected: model.SelectedOptions{"plan": "24m"},
			wantErr:  errors.ErrInvalidOption,
		},
		{
			name:     "unknown option key",
			selected: model.SelectedOptions{"plan": "1m", "color": "red"},
			wantErr:  errors.ErrInvalidOption,
		},
		{
			name:     "checkbox needs a boolean",
			selected: model.SelectedOptions{"plan": "1m", "warranty": "maybe"},
			wantErr:  errors.ErrInvalidOption,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, stored, err := ResolveUnitPrice(optionedProduct(), tt.selected)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.wantPrice).Equal(price), "got %s", price)
			assert.Equal(t, tt.wantStored, stored)
		})
	}
}

func TestResolveUnitPrice_NoOptions(t *testing.T) {
	product := &model.Product{Price: decimal.RequireFromString("4.99")}
	price, stored, err := ResolveUnitPrice(product, nil)
	require.NoError(t, err)
	assert.Equal(t, "4.99", price.StringFixed(2))
	assert.Empty(t, stored)
}

func TestResolveUnitPrice_NegativeResultRejected(t *testing.T) {
	product := &model.Product{
		Price: decimal.RequireFromString("1.00"),
		Options: []model.ProductOption{{
			Key: "promo", Label: "Promo", Type: model.OptionSelect,
			Choices: []model.OptionChoice{{Value: "big", PriceModifier: decimal.RequireFromString("-5")}},
		}},
	}
	_, _, err := ResolveUnitPrice(product, model.SelectedOptions{"promo": "big"})
	assert.ErrorIs(t, err, errors.ErrInvalidOption)
}

func TestValidateOptionSet(t *testing.T) {
	tests := []struct {
		name    string
		options []model.ProductOption
		wantErr bool
	}{
		{name: "valid set", options: optionedProduct().Options},
		{name: "empty set", options: nil},
		{
			name: "duplicate keys",
			options: []model.ProductOption{
				{Key: "region", Label: "Region", Type: model.OptionInput},
				{Key: "region", Label: "Region again", Type: model.OptionInput},
			},
			wantErr: true,
		},
		{
			name:    "select without choices",
			options: []model.ProductOption{{Key: "plan", Label: "Plan", Type: model.OptionSelect}},
			wantErr: true,
		},
		{
			name:    "key is not a slug",
			options: []model.ProductOption{{Key: "Game Region", Label: "Region", Type: model.OptionInput}},
			wantErr: true,
		},
		{
			name:    "unknown type",
			options: []model.ProductOption{{Key: "x", Label: "X", Type: "radio"}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOptionSet(tt.options)
			if tt.wantErr {
				assert.ErrorIs(t, err, errors.ErrInvalidOptionSet)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
