package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"storefront/internal/domain"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, domain.IsNotFound(fmt.Errorf("item 0: %w", domain.ErrInvalidProductReference)))
	assert.True(t, domain.IsNotFound(fmt.Errorf("item 1: %w", domain.ErrProductNotFound)))
	assert.False(t, domain.IsNotFound(domain.ErrPersistence))
	assert.False(t, domain.IsNotFound(errors.New("boom")))
	assert.False(t, domain.IsNotFound(nil))
}
