package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewClientValidatesURL(t *testing.T) {
	_, err := NewClient(context.Background(), Config{})
	assert.ErrorContains(t, err, "DATABASE_URL")

	_, err = NewClient(context.Background(), Config{DatabaseURL: "postgres://user@host:notaport/db"})
	assert.Error(t, err)
}
