package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, NotFound, KindOf(New(NotFound, "post not found")))
	assert.Equal(t, Forbidden, KindOf(fmt.Errorf("edit: %w", New(Forbidden, "not the author"))))
	assert.Equal(t, Internal, KindOf(errors.New("boom")))
	assert.Equal(t, Internal, KindOf(nil))
}

func TestIsMatchesSentinelByKind(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", New(BadRequest, "parent belongs to another post"))
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestMessageOfHidesInternalCause(t *testing.T) {
	err := Wrap(Internal, "tx failed", errors.New("deadlock found when trying to get lock"))
	assert.Equal(t, "internal server error", MessageOf(err))
	assert.Equal(t, "comment not found", MessageOf(New(NotFound, "comment not found")))
	assert.Equal(t, "forbidden", MessageOf(ErrForbidden))
}

func TestFromValidation(t *testing.T) {
	type input struct {
		Content string `validate:"required"`
	}
	err := FromValidation(validator.New().Struct(input{}))
	assert.True(t, errors.Is(err, ErrBadRequest))
	assert.Contains(t, MessageOf(err), "content failed on 'required'")
	assert.NoError(t, FromValidation(nil))
}
