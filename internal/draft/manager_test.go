package draft

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qfast/qfast/internal/domain"
	"github.com/qfast/qfast/internal/kv"
)

func TestManagerFlowPerUser(t *testing.T) {
	m := NewManager(Deps{Logger: testLogger()}, kv.NewMemoryStore())
	alice, bob := uuid.New(), uuid.New()

	flow := m.Flow(alice)
	assert.Same(t, flow, m.Flow(alice), "repeated lookups return the live flow")
	assert.NotSame(t, flow, m.Flow(bob), "flows are per user")
}

func TestManagerEndPurgesPersistence(t *testing.T) {
	durable := kv.NewMemoryStore()
	m := NewManager(Deps{Logger: testLogger()}, durable)
	userID := uuid.New()

	flow := m.Flow(userID)
	flow.Store.UpdateItems([]domain.QuoteItem{{Description: "Work", Quantity: 1, UnitPrice: 10}})
	flow.Session.Blur()

	keys, err := durable.Keys()
	require.NoError(t, err)
	require.NotEmpty(t, keys, "blur persisted a snapshot")

	m.End(userID)

	keys, err = durable.Keys()
	require.NoError(t, err)
	assert.Empty(t, keys)
	assert.NotSame(t, flow, m.Flow(userID), "a new entry builds a fresh flow")
}
