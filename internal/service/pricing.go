package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"digistore/internal/errors"
	"digistore/internal/model"
	"digistore/internal/slugs"
)

const maxInputOptionLength = 500

// ResolveUnitPrice applies the selected options to the product's base price.
// It returns the unit price and the normalized selection that gets stored on carts and orders.
func ResolveUnitPrice(product *model.Product, selected model.SelectedOptions) (decimal.Decimal, model.SelectedOptions, error) {
	price := product.Price
	normalized := make(model.SelectedOptions, len(product.Options))

	known := make(map[string]struct{}, len(product.Options))
	for _, opt := range product.Options {
		known[opt.Key] = struct{}{}
	}
	for key := range selected {
		if _, ok := known[key]; !ok {
			return decimal.Zero, nil, fmt.Errorf("unknown option %q: %w", key, errors.ErrInvalidOption)
		}
	}

	for _, opt := range product.Options {
		value := strings.TrimSpace(selected[opt.Key])

		switch opt.Type {
		case model.OptionSelect:
			if value == "" {
				if opt.Required {
					return decimal.Zero, nil, fmt.Errorf("option %q is required: %w", opt.Key, errors.ErrInvalidOption)
				}
				continue
			}
			choice, ok := findChoice(opt.Choices, value)
			if !ok {
				return decimal.Zero, nil, fmt.Errorf("option %q has no value %q: %w", opt.Key, value, errors.ErrInvalidOption)
			}
			price = price.Add(choice.PriceModifier)
			normalized[opt.Key] = value

		case model.OptionCheckbox:
			checked := false
			if value != "" {
				b, err := strconv.ParseBool(value)
				if err != nil {
					return decimal.Zero, nil, fmt.Errorf("option %q must be true or false: %w", opt.Key, errors.ErrInvalidOption)
				}
				checked = b
			}
			if opt.Required && !checked {
				return decimal.Zero, nil, fmt.Errorf("option %q must be checked: %w", opt.Key, errors.ErrInvalidOption)
			}
			if checked && len(opt.Choices) > 0 {
				price = price.Add(opt.Choices[0].PriceModifier)
			}
			normalized[opt.Key] = strconv.FormatBool(checked)

		case model.OptionInput:
			if value == "" {
				if opt.Required {
					return decimal.Zero, nil, fmt.Errorf("option %q is required: %w", opt.Key, errors.ErrInvalidOption)
				}
				continue
			}
			if len(value) > maxInputOptionLength {
				return decimal.Zero, nil, fmt.Errorf("option %q is too long: %w", opt.Key, errors.ErrInvalidOption)
			}
			normalized[opt.Key] = value

		default:
			return decimal.Zero, nil, fmt.Errorf("option %q has unknown type %q: %w", opt.Key, opt.Type, errors.ErrInvalidOption)
		}
	}

	if price.IsNegative() {
		return decimal.Zero, nil, fmt.Errorf("options reduce price below zero: %w", errors.ErrInvalidOption)
	}
	return price.Round(2), normalized, nil
}

func findChoice(choices []model.OptionChoice, value string) (model.OptionChoice, bool) {
	for _, c := range choices {
		if c.Value == value {
			return c, true
		}
	}
	return model.OptionChoice{}, false
}

// ValidateOptionSet checks an admin-defined option set before it is stored.
func ValidateOptionSet(options []model.ProductOption) error {
	keys := make(map[string]struct{}, len(options))
	for i, opt := range options {
		if opt.Key == "" || !slugs.IsValid(opt.Key) {
			return fmt.Errorf("option %d: key %q must be a slug: %w", i, opt.Key, errors.ErrInvalidOptionSet)
		}
		if _, dup := keys[opt.Key]; dup {
			return fmt.Errorf("option key %q is duplicated: %w", opt.Key, errors.ErrInvalidOptionSet)
		}
		keys[opt.Key] = struct{}{}

		if strings.TrimSpace(opt.Label) == "" {
			return fmt.Errorf("option %q needs a label: %w", opt.Key, errors.ErrInvalidOptionSet)
		}

		switch opt.Type {
		case model.OptionSelect:
			if len(opt.Choices) == 0 {
				return fmt.Errorf("select option %q needs at least one choice: %w", opt.Key, errors.ErrInvalidOptionSet)
			}
			values := make(map[string]struct{}, len(opt.Choices))
			for _, c := range opt.Choices {
				if c.Value == "" {
					return fmt.Errorf("option %q has a choice without value: %w", opt.Key, errors.ErrInvalidOptionSet)
				}
				if _, dup := values[c.Value]; dup {
					return fmt.Errorf("option %q repeats value %q: %w", opt.Key, c.Value, errors.ErrInvalidOptionSet)
				}
				values[c.Value] = struct{}{}
			}
		case model.OptionCheckbox:
			if len(opt.Choices) > 1 {
				return fmt.Errorf("checkbox option %q takes at most one choice: %w", opt.Key, errors.ErrInvalidOptionSet)
			}
		case model.OptionInput:
			if len(opt.Choices) > 0 {
				return fmt.Errorf("input option %q takes no choices: %w", opt.Key, errors.ErrInvalidOptionSet)
			}
		default:
			return fmt.Errorf("option %q has unknown type %q: %w", opt.Key, opt.Type, errors.ErrInvalidOptionSet)
		}
	}
	return nil
}
