package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorHelpers(t *testing.T) {
	unique := &pq.Error{Code: PgUniqueViolation, Constraint: "users_username_key"}
	wrapped := fmt.Errorf("insert user: %w", unique)

	assert.True(t, IsUniqueViolation(unique))
	assert.True(t, IsUniqueViolation(wrapped))
	assert.True(t, IsUniqueViolation(wrapped, "users_username_key"))
	assert.False(t, IsUniqueViolation(wrapped, "shopping_cart_user_id_key"))
	assert.False(t, IsUniqueViolation(errors.New("duplicate")))

	assert.True(t, IsForeignKeyViolation(&pq.Error{Code: PgForeignKeyViolation}))
	assert.False(t, IsForeignKeyViolation(unique))

	assert.True(t, IsCheckViolation(&pq.Error{Code: PgCheckViolation}))
	assert.False(t, IsCheckViolation(nil))

	assert.True(t, IsNumericOutOfRange(fmt.Errorf("upsert: %w", &pq.Error{Code: PgNumericOutOfRange})))
	assert.False(t, IsNumericOutOfRange(&pq.Error{Code: PgCheckViolation}))
}
