package ws

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(role string, id uint) *Client {
	return &Client{UserID: id, Role: role, Send: make(chan []byte, 4)}
}

func TestBroadcastReachesOnlyMatchingRoleAndID(t *testing.T) {
	h := NewHub()
	tenant := newClient("TENANT", 7)
	landlordSameID := newClient("LANDLORD", 7)
	otherTenant := newClient("TENANT", 8)
	h.Register(tenant)
	h.Register(landlordSameID)
	h.Register(otherTenant)

	h.BroadcastToUser("TENANT", 7, map[string]string{"type": "PAYMENT_CONFIRMED"})

	select {
	case msg := <-tenant.Send:
		var got map[string]string
		require.NoError(t, json.Unmarshal(msg, &got))
		assert.Equal(t, "PAYMENT_CONFIRMED", got["type"])
	default:
		t.Fatal("tenant did not receive the notification")
	}
	// Same numeric id under another role must stay silent.
	assert.Empty(t, landlordSameID.Send)
	assert.Empty(t, otherTenant.Send)
}

func TestBroadcastFansOutToAllConnectionsOfPrincipal(t *testing.T) {
	h := NewHub()
	first := newClient("TENANT", 7)
	second := newClient("TENANT", 7)
	h.Register(first)
	h.Register(second)

	h.BroadcastToUser("TENANT", 7, map[string]string{"type": "INSPECTION_SCHEDULED"})
	assert.Len(t, first.Send, 1)
	assert.Len(t, second.Send, 1)
}

func TestCloseUnregisters(t *testing.T) {
	h := NewHub()
	c := newClient("TENANT", 7)
	h.Register(c)
	require.Equal(t, 1, h.ClientCount())

	c.Close()
	assert.Equal(t, 0, h.ClientCount())

	// Closing twice is safe, broadcasting to a gone client is a no-op.
	c.Close()
	h.BroadcastToUser("TENANT", 7, map[string]string{"type": "NOOP"})
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	h := NewHub()
	c := &Client{UserID: 7, Role: "TENANT", Send: make(chan []byte, 1)}
	h.Register(c)

	h.BroadcastToUser("TENANT", 7, map[string]string{"n": "1"})
	// Buffer is full now; this must not block.
	h.BroadcastToUser("TENANT", 7, map[string]string{"n": "2"})
	assert.Len(t, c.Send, 1)
}
