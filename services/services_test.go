package services

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hushmail/hushmail-be/model"
)

func TestLiveHub_BroadcastsToSubscribers(t *testing.T) {
	hub := NewLiveHub([]string{"http://localhost:3000"})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("subscribers=%d want=1", hub.Subscribers())
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(&model.FeedEvent{Type: model.FeedEventPostCreated, PostId: "p1", Timestamp: time.Now()})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var event model.FeedEvent
	if err := json.Unmarshal(msg, &event); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if event.Type != model.FeedEventPostCreated || event.PostId != "p1" {
		t.Fatalf("event=%+v", event)
	}

	conn.Close()
	deadline = time.Now().Add(2 * time.Second)
	for hub.Subscribers() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("subscriber not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestLiveHub_RejectsForeignOrigin(t *testing.T) {
	hub := NewLiveHub([]string{"http://localhost:3000"})
	srv := httptest.NewServer(hub)
	defer srv.Close()

	header := http.Header{}
	header.Set("Origin", "http://evil.test")
	_, res, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http"), header)
	if err == nil {
		t.Fatalf("expected handshake failure")
	}
	if res == nil || res.StatusCode != http.StatusForbidden {
		t.Fatalf("res=%v want 403", res)
	}
}

func TestLiveHub_PublishWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := NewLiveHub(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < 100; i++ {
			hub.Publish(&model.FeedEvent{Type: model.FeedEventPostDeleted, PostId: "p"})
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("publish blocked")
	}
}

func TestSuggester_RelaysUpstreamJSON(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("key") != "k" {
			rw.WriteHeader(http.StatusForbidden)
			return
		}
		body, _ := io.ReadAll(r.Body)
		if !strings.Contains(string(body), `"parts"`) {
			rw.WriteHeader(http.StatusBadRequest)
			return
		}
		rw.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(rw, `{"candidates":[{"content":{"parts":[{"text":"What made you smile today?"}]}}]}`)
	}))
	defer upstream.Close()

	raw, err := NewSuggester(upstream.URL+"/generate", "k").Suggest(context.Background())
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if !strings.Contains(string(raw), "What made you smile today?") {
		t.Fatalf("raw=%s", raw)
	}

	if _, err := NewSuggester(upstream.URL+"/generate", "wrong").Suggest(context.Background()); err == nil {
		t.Fatalf("expected error for rejected key")
	}
}
