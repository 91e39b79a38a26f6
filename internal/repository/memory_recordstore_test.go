package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

func TestMemoryRecordStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryRecordStore()
	store.PutRecord(8, models.ReferenceIndividual, map[string]string{
		"full_legal_name": "Robert SEBASTIAO Da Elvis",
		"email":           "robert@example.com",
	})

	t.Run("get and update", func(t *testing.T) {
		v, err := store.GetField(ctx, 8, models.ReferenceIndividual, "full_legal_name")
		assert.NoError(t, err)
		assert.Equal(t, "Robert SEBASTIAO Da Elvis", v)

		err = store.UpdateField(ctx, 8, models.ReferenceIndividual, "full_legal_name", "Jane Smith")
		assert.NoError(t, err)
		assert.Equal(t, "Jane Smith", store.Field(8, models.ReferenceIndividual, "full_legal_name"))
	})

	t.Run("missing field reads empty", func(t *testing.T) {
		v, err := store.GetField(ctx, 8, models.ReferenceIndividual, "country_of_residence")
		assert.NoError(t, err)
		assert.Equal(t, "", v)
	})

	t.Run("missing client", func(t *testing.T) {
		_, err := store.GetField(ctx, 404, models.ReferenceIndividual, "email")
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("forced update failure", func(t *testing.T) {
		store.UpdateErr = errors.New("connection reset")
		defer func() { store.UpdateErr = nil }()
		err := store.UpdateField(ctx, 8, models.ReferenceIndividual, "email", "x@example.com")
		assert.Error(t, err)
		assert.Equal(t, "robert@example.com", store.Field(8, models.ReferenceIndividual, "email"))
	})

	t.Run("first name for greeting", func(t *testing.T) {
		name, err := store.FirstName(ctx, 8, models.ReferenceIndividual)
		assert.NoError(t, err)
		assert.Equal(t, "Jane", name)
	})
}
