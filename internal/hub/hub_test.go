package hub

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/registry"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/repository/mocks"
	"github.com/rrttalv/ezylanding-landing-page-builder-backend/internal/service"
)

// startHub wires a hub with a real registry and repository mocks and runs
// the event loop.
func startHub(t *testing.T) *Hub {
	t.Helper()
	h := NewHub(nil)
	session := service.NewSessionService(registry.New(), new(mocks.TemplateRepository), new(mocks.BlobStore), h)
	h.AttachSession(session)
	go h.Run()
	t.Cleanup(func() { close(h.messageChan) })
	return h
}

// newTestClient builds a client without a real websocket connection. The
// pumps are never started, so the nil conn is never touched.
func newTestClient(h *Hub, userID uint) *Client {
	return NewClient(h, nil, userID)
}

func TestHub_RoomInitJoinsRoom(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	require.True(t, h.QueueMessage(HubMessage{Type: "register", Client: client}))
	require.True(t, h.QueueMessage(HubMessage{
		Type:    "event",
		Client:  client,
		RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`),
	}))

	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHub_SecondRoomInitMovesClient(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	h.QueueMessage(HubMessage{Type: "register", Client: client})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-b"}`)})

	require.Eventually(t, func() bool {
		return h.RoomSize("room-b") == 1 && h.RoomSize("room-a") == 0
	}, time.Second, 5*time.Millisecond)
}

func TestHub_BroadcastReachesAllRoomMembers(t *testing.T) {
	h := startHub(t)
	sender := newTestClient(h, 1)
	peer := newTestClient(h, 2)

	for _, c := range []*Client{sender, peer} {
		h.QueueMessage(HubMessage{Type: "register", Client: c})
		h.QueueMessage(HubMessage{Type: "event", Client: c, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})
	}
	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 2
	}, time.Second, 5*time.Millisecond)

	h.BroadcastToRoom("room-a", []byte(`{"type":"templateSaved"}`))

	for _, c := range []*Client{sender, peer} {
		select {
		case msg := <-c.send:
			assert.JSONEq(t, `{"type":"templateSaved"}`, string(msg))
		case <-time.After(time.Second):
			t.Fatal("client did not receive broadcast")
		}
	}
}

func TestHub_BroadcastToUnknownRoomIsNoop(t *testing.T) {
	h := startHub(t)
	h.BroadcastToRoom("ghost-room", []byte(`{}`))
}

func TestHub_UnregisterLeavesRoom(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	h.QueueMessage(HubMessage{Type: "register", Client: client})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})
	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 1
	}, time.Second, 5*time.Millisecond)

	h.QueueMessage(HubMessage{Type: "unregister", Client: client})

	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 0
	}, time.Second, 5*time.Millisecond)
	// send channel is closed so the write pump would exit.
	_, open := <-client.send
	assert.False(t, open)
}

func TestHub_RoomInitWithoutRoomIDIsDropped(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	h.QueueMessage(HubMessage{Type: "register", Client: client})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","room":"legacy-field"}`)})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})

	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 1
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, 0, h.RoomSize("legacy-field"))
}

func TestHub_UnregisterClosesSendWithPendingBroadcast(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	h.QueueMessage(HubMessage{Type: "register", Client: client})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})
	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 1
	}, time.Second, 5*time.Millisecond)

	// A queued broadcast must not keep the send channel open.
	h.BroadcastToRoom("room-a", []byte(`{"type":"templateSaved"}`))
	h.QueueMessage(HubMessage{Type: "unregister", Client: client})
	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 0
	}, time.Second, 5*time.Millisecond)

	msg, open := <-client.send
	require.True(t, open, "pending broadcast should still be delivered")
	assert.JSONEq(t, `{"type":"templateSaved"}`, string(msg))
	_, open = <-client.send
	assert.False(t, open, "send channel should be closed after unregister")
}

func TestHub_MalformedEventIsDropped(t *testing.T) {
	h := startHub(t)
	client := newTestClient(h, 42)

	h.QueueMessage(HubMessage{Type: "register", Client: client})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`not json`)})
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"unknownEvent"}`)})

	// The loop keeps running: a valid join still works afterwards.
	h.QueueMessage(HubMessage{Type: "event", Client: client, RawData: []byte(`{"type":"roomInit","roomId":"room-a"}`)})
	require.Eventually(t, func() bool {
		return h.RoomSize("room-a") == 1
	}, time.Second, 5*time.Millisecond)
}
