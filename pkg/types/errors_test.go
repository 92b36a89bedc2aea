package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(err error) bool
	}{
		{"validation", &ValidationError{Reason: "bad input"}, IsValidation},
		{"access", &AccessError{Reason: "denied"}, IsAccess},
		{"conflict", &ConflictError{Reason: "duplicate"}, IsConflict},
		{"not found", &NotFoundError{Entity: "bookmark"}, IsNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.check(tt.err))

			// Kind checks see through wrapping.
			assert.True(t, tt.check(fmt.Errorf("outer: %w", tt.err)))

			// And reject the other kinds.
			for _, other := range tests {
				if other.name != tt.name {
					assert.False(t, other.check(tt.err))
				}
			}
		})
	}
}

func TestIntegrityErrorUnwrap(t *testing.T) {
	inner := &ValidationError{Reason: "bad parent"}
	err := &IntegrityError{Op: "delete category", Err: inner}

	assert.Equal(t, "delete category: bad parent", err.Error())
	assert.True(t, errors.Is(err, inner))
	assert.True(t, IsValidation(err), "wrapped kind is still detectable")
}

func TestBookmarkDead(t *testing.T) {
	ok := 200
	gone := 410
	assert.False(t, (&Bookmark{}).Dead(), "unchecked bookmark is not dead")
	assert.False(t, (&Bookmark{StatusCode: &ok}).Dead())
	assert.True(t, (&Bookmark{StatusCode: &gone}).Dead())
}
