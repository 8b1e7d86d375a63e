package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"digistore/internal/errors"
	"digistore/internal/model"
)

var (
	expiryRegex = regexp.MustCompile(`^(0[1-9]|1[0-2])/(\d{2})$`)
	cvvRegex    = regexp.MustCompile(`^\d{3,4}$`)
	nonDigit    = regexp.MustCompile(`\D`)
)

// CardDetails carries card data entered at the payment step. It is never persisted.
type CardDetails struct {
	Number string `json:"number"`
	Expiry string `json:"expiry"`
	CVV    string `json:"cvv"`
}

// PaymentValidator validates the payment selection of a checkout.
type PaymentValidator struct {
	now func() time.Time
}

// NewPaymentValidator creates a new payment validator.
func NewPaymentValidator() *PaymentValidator {
	return &PaymentValidator{now: time.Now}
}

// Validate checks the payment method and returns the reference stored on the order:
// the masked card number for card payments, the method name otherwise.
func (v *PaymentValidator) Validate(method model.PaymentMethod, card *CardDetails) (string, error) {
	switch method {
	case model.PaymentCard:
		if card == nil {
			return "", errors.ErrInvalidCard
		}
		if err := v.ValidateCard(card.Number, card.Expiry, card.CVV); err != nil {
			return "", err
		}
		return v.MaskCardNumber(card.Number), nil
	case model.PaymentBankTransfer, model.PaymentCrypto, model.PaymentPayPal:
		return string(method), nil
	default:
		return "", errors.ErrInvalidPaymentMethod
	}
}

// ValidateCard validates card number, expiry, and CVV.
func (v *PaymentValidator) ValidateCard(cardNumber, expiry, cvv string) error {
	// Remove spaces and dashes from card number
	cardNumber = strings.ReplaceAll(strings.ReplaceAll(cardNumber, " ", ""), "-", "")

	if !v.validateLuhn(cardNumber) {
		return errors.ErrInvalidCard
	}

	if !expiryRegex.MatchString(expiry) {
		return errors.ErrInvalidCard
	}

	if !v.validateExpiry(expiry) {
		return errors.ErrInvalidCard
	}

	if !cvvRegex.MatchString(cvv) {
		return errors.ErrInvalidCard
	}

	return nil
}

// validateLuhn validates a card number using the Luhn algorithm.
func (v *PaymentValidator) validateLuhn(cardNumber string) bool {
	if nonDigit.MatchString(cardNumber) {
		return false
	}
	if len(cardNumber) < 13 || len(cardNumber) > 19 {
		return false
	}

	sum := 0
	isEven := false

	// Process from right to left
	for i := len(cardNumber) - 1; i >= 0; i-- {
		digit := int(cardNumber[i] - '0')

		if isEven {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}

		sum += digit
		isEven = !isEven
	}

	return sum%10 == 0
}

// validateExpiry validates that the expiry month is not in the past.
func (v *PaymentValidator) validateExpiry(expiry string) bool {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}

	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return false
	}
	year += 2000

	now := v.now().UTC()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	expiryMonth := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)

	// A card is valid through the whole expiry month.
	return !expiryMonth.Before(currentMonth)
}

// MaskCardNumber masks a card number, showing only last 4 digits.
func (v *PaymentValidator) MaskCardNumber(cardNumber string) string {
	cardNumber = strings.ReplaceAll(strings.ReplaceAll(cardNumber, " ", ""), "-", "")
	if len(cardNumber) < 4 {
		return "****"
	}
	return "****" + cardNumber[len(cardNumber)-4:]
}
