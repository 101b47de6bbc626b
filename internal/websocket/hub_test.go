package websocket

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/willowmere/hearth/internal/model"
)

// mockClient creates a Client with a send channel but no real connection.
func mockClient(hub *Hub, houseID string) *Client {
	return &Client{
		hub:     hub,
		conn:    nil,
		houseID: houseID,
		send:    make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "HOUSE1")
	c2 := mockClient(hub, "HOUSE1")

	hub.Register(c1)
	hub.Register(c2)

	if got := hub.RoomSize("HOUSE1"); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.Unregister(c1)

	if got := hub.RoomSize("HOUSE1"); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.Unregister(c2)

	if got := hub.RoomSize("HOUSE1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub, "HOUSE1")
	hub.Register(c)
	hub.Unregister(c)
	// Should not panic
	hub.Unregister(c)

	if got := hub.RoomSize("HOUSE1"); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcastReachesRoom(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "HOUSE1")
	c2 := mockClient(hub, "HOUSE1")
	hub.Register(c1)
	hub.Register(c2)

	chores := []model.Chore{{ID: "c1", HouseID: "HOUSE1", Title: "Dishes"}}
	hub.Broadcast("HOUSE1", chores)

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.send:
			var got Snapshot
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "chores" {
				t.Errorf("expected type chores, got %s", got.Type)
			}
			if got.HouseID != "HOUSE1" {
				t.Errorf("expected house HOUSE1, got %s", got.HouseID)
			}
			if len(got.Chores) != 1 || got.Chores[0].Title != "Dishes" {
				t.Errorf("unexpected chores payload: %+v", got.Chores)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for message")
		}
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastIsScopedToHouse(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub, "HOUSE1")
	c2 := mockClient(hub, "HOUSE2")
	hub.Register(c1)
	hub.Register(c2)

	hub.Broadcast("HOUSE1", []model.Chore{{ID: "c1", Title: "Dishes"}})

	select {
	case <-c1.send:
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for message in HOUSE1 room")
	}

	select {
	case <-c2.send:
		t.Fatal("HOUSE2 client received a HOUSE1 broadcast")
	default:
	}

	hub.Unregister(c1)
	hub.Unregister(c2)
}

func TestBroadcastEmptyRoom(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast("NOBODY", nil)
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub, "HOUSE1")
	hub.Register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast("HOUSE1", nil)
	}

	// This should drop the message, not panic or block
	hub.Broadcast("HOUSE1", nil)

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d messages, got %d", sendBufferSize, count)
	}

	hub.Unregister(c)
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub, "HOUSE1")
			hub.Register(c)
			hub.Broadcast("HOUSE1", nil)
			for {
				select {
				case <-c.send:
				default:
					hub.Unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.RoomSize("HOUSE1"); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
