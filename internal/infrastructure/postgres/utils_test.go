package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderByClause_ColumnaPermitida(t *testing.T) {
	allowed := map[string]bool{"name": true, "price": true}

	clause := orderByClause("price", false, allowed, "created_at")
	assert.Equal(t, " ORDER BY price ASC, id", clause)

	clause = orderByClause("name", true, allowed, "created_at")
	assert.Equal(t, " ORDER BY name DESC, id", clause)
}

func TestOrderByClause_ColumnaNoPermitidaUsaFallback(t *testing.T) {
	allowed := map[string]bool{"name": true}

	// un sort_by arbitrario del cliente nunca llega al SQL
	clause := orderByClause("1; DROP TABLE products", false, allowed, "created_at")
	assert.Equal(t, " ORDER BY created_at ASC, id", clause)

	clause = orderByClause("", true, allowed, "created_at")
	assert.Equal(t, " ORDER BY created_at DESC, id", clause)
}
