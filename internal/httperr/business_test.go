package httperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBusinessErrors(t *testing.T) {
	err := ErrBusiness(CodeNotFoundOrForbidden)

	assert.True(t, IsBusiness(err, CodeNotFoundOrForbidden))
	assert.False(t, IsBusiness(err, CodeNotFound))
	assert.Equal(t, CodeNotFoundOrForbidden, BusinessCode(err))

	t.Run("survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("update rejected: %w", err)
		assert.True(t, IsBusiness(wrapped, CodeNotFoundOrForbidden))
		assert.Equal(t, CodeNotFoundOrForbidden, BusinessCode(wrapped))
	})

	t.Run("foreign errors have no code", func(t *testing.T) {
		assert.Empty(t, BusinessCode(errors.New("boom")))
		assert.False(t, IsBusiness(errors.New("boom"), CodeNotFound))
	})
}
