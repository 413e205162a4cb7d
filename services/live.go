package services

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/hushmail/hushmail-be/log"
	"github.com/hushmail/hushmail-be/model"
)

const (
	liveWriteTimeout = 5 * time.Second
	livePingInterval = 30 * time.Second
	liveReadTimeout  = 2 * livePingInterval
	liveBufferSize   = 16
)

// LiveHub fans feed events out to websocket subscribers.
// Slow subscribers drop events; clients treat events as re-poll hints only.
type LiveHub struct {
	upgrader websocket.Upgrader

	mu          sync.Mutex
	subscribers map[chan []byte]struct{}
}

func NewLiveHub(allowedOrigins []string) *LiveHub {
	return &LiveHub{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4 * 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		subscribers: make(map[chan []byte]struct{}),
	}
}

func originChecker(allowedOrigins []string) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed["*"] || allowed[origin]
	}
}

// Publish never blocks.
func (lh *LiveHub) Publish(event *model.FeedEvent) {
	msg, err := json.Marshal(event)
	if err != nil {
		log.Error.Println("could not encode feed event", err)
		return
	}
	lh.mu.Lock()
	defer lh.mu.Unlock()
	for out := range lh.subscribers {
		select {
		case out <- msg:
		default:
		}
	}
}

func (lh *LiveHub) subscribe() chan []byte {
	out := make(chan []byte, liveBufferSize)
	lh.mu.Lock()
	lh.subscribers[out] = struct{}{}
	lh.mu.Unlock()
	return out
}

func (lh *LiveHub) unsubscribe(out chan []byte) {
	lh.mu.Lock()
	delete(lh.subscribers, out)
	lh.mu.Unlock()
}

func (lh *LiveHub) Subscribers() int {
	lh.mu.Lock()
	defer lh.mu.Unlock()
	return len(lh.subscribers)
}

// ServeHTTP upgrades the request and streams events until the client goes away.
func (lh *LiveHub) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	// subscribed before the handshake completes so no event after connect is missed
	out := lh.subscribe()
	defer lh.unsubscribe(out)

	conn, err := lh.upgrader.Upgrade(rw, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	writeErr := make(chan error, 1)
	go func() {
		ping := time.NewTicker(livePingInterval)
		defer ping.Stop()
		for {
			select {
			case <-ctx.Done():
				writeErr <- ctx.Err()
				return
			case msg := <-out:
				_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
				if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
					writeErr <- err
					return
				}
			case <-ping.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(liveWriteTimeout)); err != nil {
					writeErr <- err
					return
				}
			}
		}
	}()

	// Subscribers only listen; reads keep pongs and close frames flowing.
	_ = conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(liveReadTimeout))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	cancel()
	_ = conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "bye"), time.Now().Add(time.Second))
	select {
	case <-writeErr:
	case <-time.After(500 * time.Millisecond):
	}
}
