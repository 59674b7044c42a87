package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "batch not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestNoStockError_CarriesProductID(t *testing.T) {
	err := NewNoStockError("prod-1")

	assert.Equal(t, "prod-1", err.ProductID)
	assert.Contains(t, err.Error(), "prod-1")

	nsErr, ok := IsNoStockError(err)
	assert.True(t, ok)
	assert.Equal(t, "prod-1", nsErr.ProductID)
}

func TestNoStockError_IsNotNotFound(t *testing.T) {
	var err error = NewNoStockError("prod-1")

	_, ok := IsNotFoundError(err)
	assert.False(t, ok)
}

func TestInsufficientStockError_CarriesShortfall(t *testing.T) {
	err := NewInsufficientStockError("prod-2", 5, 8)

	assert.Equal(t, 5, err.Available)
	assert.Equal(t, 8, err.Requested)
	assert.Contains(t, err.Error(), "available 5")
	assert.Contains(t, err.Error(), "requested 8")

	isErr, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, "prod-2", isErr.ProductID)
}

func TestDeadlockError_Creation(t *testing.T) {
	err := NewDeadlockError("max retries exceeded")

	deadlockErr, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", deadlockErr.Message)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "qty", Message: "must be positive"},
		{Field: "productId", Message: "required field"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
