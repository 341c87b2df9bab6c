package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/procura-api/internal/domain"
)

func TestKindOf(t *testing.T) {
	cases := map[domain.Kind]error{
		domain.KindNotFound:     fmt.Errorf("pedido x: %w", domain.ErrNotFound),
		domain.KindValidation:   fmt.Errorf("cantidad: %w", domain.ErrInvalidInput),
		domain.KindUnauthorized: domain.ErrUnauthorized,
		domain.KindConflict:     fmt.Errorf("varianza: %w", domain.ErrDuplicate),
		domain.KindInternal:     errors.New("conexión rechazada"),
	}
	for want, err := range cases {
		assert.Equal(t, want, domain.KindOf(err), err.Error())
	}
	assert.Equal(t, domain.Kind(""), domain.KindOf(nil))
}
