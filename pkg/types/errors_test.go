package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDatabaseErrorMatching(t *testing.T) {
	// Wrapped sentinels still match errors.Is by code.
	err := fmt.Errorf("task abc: %w", ErrNotFound)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrForbidden)

	// Two layers of wrapping.
	outer := fmt.Errorf("handling request: %w", err)
	assert.ErrorIs(t, outer, ErrNotFound)
}

func TestDatabaseErrorMessage(t *testing.T) {
	e := &DatabaseError{Code: CodeValidation, Message: "bad input"}
	assert.Equal(t, "bad input", e.Error())

	wrapped := &DatabaseError{Code: CodeDatabase, Message: "query failed", Err: errors.New("disk io")}
	assert.Equal(t, "query failed: disk io", wrapped.Error())
	assert.Equal(t, "disk io", wrapped.Unwrap().Error())
}

func TestErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotFound, ErrorCode(ErrNotFound))
	assert.Equal(t, CodeForbidden, ErrorCode(fmt.Errorf("ctx: %w", ErrForbidden)))
	assert.Equal(t, CodeDatabase, ErrorCode(errors.New("plain")))
	assert.Equal(t, CodeDatabase, ErrorCode(nil))
}
