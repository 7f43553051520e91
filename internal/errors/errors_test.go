package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAPIError(t *testing.T) {
	err := New(http.StatusBadRequest, "INVALID_REQUEST", "bad input")

	assert.Equal(t, "bad input", err.Error())
	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, "INVALID_REQUEST", err.ErrorCode)
	assert.Nil(t, err.Details)
}

func TestInvalidWorkbookError(t *testing.T) {
	err := InvalidWorkbookError("template", fmt.Errorf("not a zip archive"))

	assert.Equal(t, http.StatusUnprocessableEntity, err.StatusCode)
	assert.Equal(t, "INVALID_WORKBOOK", err.ErrorCode)
	assert.Equal(t, "Failed to load template workbook", err.Message)
	assert.Equal(t, "not a zip archive", err.Details)
}

func TestValidationError(t *testing.T) {
	err := ValidationError("rows_to_validate", "must not be empty")

	assert.Equal(t, http.StatusBadRequest, err.StatusCode)
	assert.Equal(t, map[string]string{
		"field":   "rows_to_validate",
		"message": "must not be empty",
	}, err.Details)
}
