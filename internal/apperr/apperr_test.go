package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		want int
	}{
		{BadRequest(CodeInvalidParams), http.StatusBadRequest},
		{Unauthorized(CodeUnauthorized), http.StatusUnauthorized},
		{Forbidden(), http.StatusForbidden},
		{NotFound(), http.StatusNotFound},
		{Internal(errors.New("db down")), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Code, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Status())
		})
	}
}

func TestIs_ComparesKindAndCode(t *testing.T) {
	err := fmt.Errorf("handler: %w", BadRequest(CodeEmptyPostTitle).Wrap(errors.New("blank")))

	assert.True(t, errors.Is(err, BadRequest(CodeEmptyPostTitle)))
	assert.False(t, errors.Is(err, BadRequest(CodeMissingPostID)))
	assert.False(t, errors.Is(err, Unauthorized(CodeEmptyPostTitle)))
}

func TestFrom(t *testing.T) {
	assert.Nil(t, From(nil))

	cause := errors.New("boom")
	got := From(cause)
	assert.Equal(t, KindInternal, got.Kind)
	assert.Equal(t, CodeInternal, got.Code)
	assert.ErrorIs(t, got, cause)

	classified := Forbidden()
	assert.Same(t, classified, From(fmt.Errorf("wrapped: %w", classified)))
}

func TestError_Message(t *testing.T) {
	assert.Equal(t, "FORBIDDEN", Forbidden().Error())
	assert.Equal(t, "INTERNAL_ERROR: boom", Internal(errors.New("boom")).Error())
}
