package hub

import (
	"sync"
	"testing"
)

func TestBroadcastScopedToTenant(t *testing.T) {
	h := New()
	a := &Client{ID: "a", TenantID: "tenant-1", Send: make(chan []byte, 1)}
	b := &Client{ID: "b", TenantID: "tenant-2", Send: make(chan []byte, 1)}
	h.Register(a)
	h.Register(b)

	h.Broadcast("tenant-1", []byte("hello"))

	select {
	case msg := <-a.Send:
		if string(msg) != "hello" {
			t.Fatalf("unexpected payload %q", msg)
		}
	default:
		t.Fatal("expected delivery to tenant-1 client")
	}
	select {
	case <-b.Send:
		t.Fatal("tenant-2 client must not receive tenant-1 events")
	default:
	}
}

func TestBroadcastSkipsStalledClient(t *testing.T) {
	h := New()
	stalled := &Client{ID: "stalled", TenantID: "tenant-1", Send: make(chan []byte)}
	healthy := &Client{ID: "healthy", TenantID: "tenant-1", Send: make(chan []byte, 1)}
	h.Register(stalled)
	h.Register(healthy)

	// Nobody drains the stalled client; broadcast must still deliver to the
	// healthy one without blocking.
	h.Broadcast("tenant-1", []byte("hello"))

	select {
	case <-healthy.Send:
	default:
		t.Fatal("healthy client should have received the event")
	}
}

func TestBroadcastIgnoresUnsubscribed(t *testing.T) {
	h := New()
	client := &Client{ID: "a", Send: make(chan []byte, 1)}
	h.Register(client)

	h.Broadcast("tenant-1", []byte("hello"))

	select {
	case <-client.Send:
		t.Fatal("client without a subscription must not receive events")
	default:
	}
}

func TestSubscribeSwapsTenant(t *testing.T) {
	h := New()
	client := &Client{ID: "a", TenantID: "tenant-1", Send: make(chan []byte, 2)}
	h.Register(client)

	h.Subscribe(client, "tenant-2")
	h.Broadcast("tenant-1", []byte("old"))
	h.Broadcast("tenant-2", []byte("new"))

	select {
	case msg := <-client.Send:
		if string(msg) != "new" {
			t.Fatalf("expected only tenant-2 event, got %q", msg)
		}
	default:
		t.Fatal("expected delivery after subscription swap")
	}
	select {
	case msg := <-client.Send:
		t.Fatalf("unexpected extra delivery %q", msg)
	default:
	}
}

func TestUnregisterStopsDelivery(t *testing.T) {
	h := New()
	client := &Client{ID: "a", TenantID: "tenant-1", Send: make(chan []byte, 1)}
	h.Register(client)
	h.Unregister(client)

	h.Broadcast("tenant-1", []byte("hello"))

	if _, open := <-client.Send; open {
		t.Fatal("send channel should be closed after unregister")
	}
}

func TestConcurrentRegisterAndBroadcast(t *testing.T) {
	h := New()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(id byte) {
			defer wg.Done()
			client := &Client{ID: string('a' + id), TenantID: "tenant-1", Send: make(chan []byte, 1)}
			h.Register(client)
			h.Unregister(client)
		}(byte(i))
		go func() {
			defer wg.Done()
			h.Broadcast("tenant-1", []byte("tick"))
		}()
	}
	wg.Wait()
}

func TestParseSubscribe(t *testing.T) {
	cases := []struct {
		name string
		data string
		ok   bool
		typ  string
	}{
		{"subscribe", `{"type":"subscribe","tenant":"t1"}`, true, "subscribe"},
		{"unsubscribe", `{"type":"unsubscribe"}`, true, "unsubscribe"},
		{"unknown type", `{"type":"ping"}`, false, ""},
		{"bad json", `{`, false, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := ParseSubscribe([]byte(tc.data))
			if ok != tc.ok {
				t.Fatalf("expected ok=%v, got %v", tc.ok, ok)
			}
			if ok && msg.Type != tc.typ {
				t.Fatalf("expected type %q, got %q", tc.typ, msg.Type)
			}
		})
	}
}
