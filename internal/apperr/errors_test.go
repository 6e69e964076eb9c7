package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKindsUnwrap(t *testing.T) {
	err := fmt.Errorf("checkout: %w", EmptyCart("ordering.PlaceOrder"))

	assert.True(t, errors.Is(err, ErrEmptyCart))
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "Your cart is empty!", Message(err))
}

func TestErrorString(t *testing.T) {
	err := NotFound("catalog.MenuItemByID", "menu item", "m42")
	assert.Equal(t, "catalog.MenuItemByID [m42]: menu item m42 not found", err.Error())

	err = &Error{Op: "kitchen.Accept", Err: ErrInvalidState}
	assert.Equal(t, "kitchen.Accept: invalid state", err.Error())
}

func TestMessageFallsBackToErrorText(t *testing.T) {
	assert.Equal(t, "boom", Message(errors.New("boom")))
	assert.Equal(t, "", Message(nil))
}
