package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"github.com/redis/go-redis/v9"
)

type Event struct {
	ID   int64       `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type subscriber struct {
	ch chan Event
}

// Hub fans lifecycle events out to SSE subscribers, keyed by project id.
// Events are also pushed to a redis list so reconnecting clients can replay
// from their Last-Event-ID.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[uint][]*subscriber
	rdb         *redis.Client
}

func NewHub(rdb *redis.Client) *Hub {
	return &Hub{
		subscribers: make(map[uint][]*subscriber),
		rdb:         rdb,
	}
}

func streamKey(projectID uint) string {
	return fmt.Sprintf("project:status:stream:%d", projectID)
}

func (h *Hub) Subscribe(projectID uint) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	sub := &subscriber{ch: make(chan Event, 64)}
	h.subscribers[projectID] = append(h.subscribers[projectID], sub)

	unsub := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		subs := h.subscribers[projectID]
		for i, s := range subs {
			if s == sub {
				h.subscribers[projectID] = append(subs[:i], subs[i+1:]...)
				close(sub.ch)
				break
			}
		}
		if len(h.subscribers[projectID]) == 0 {
			delete(h.subscribers, projectID)
		}
	}
	return sub.ch, unsub
}

func (h *Hub) Broadcast(projectID uint, event Event) {
	if h.rdb != nil {
		ctx := context.Background()
		data, _ := json.Marshal(event)
		h.rdb.RPush(ctx, streamKey(projectID), string(data))
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, sub := range h.subscribers[projectID] {
		select {
		case sub.ch <- event:
		default:
			// drop if full
		}
	}
}

func (h *Hub) ReplayFrom(projectID uint, fromID int64) ([]Event, error) {
	if h.rdb == nil {
		return nil, nil
	}
	ctx := context.Background()
	items, err := h.rdb.LRange(ctx, streamKey(projectID), fromID, -1).Result()
	if err != nil {
		return nil, err
	}

	events := make([]Event, 0, len(items))
	for i, item := range items {
		var ev Event
		if err := json.Unmarshal([]byte(item), &ev); err != nil {
			continue
		}
		ev.ID = fromID + int64(i)
		events = append(events, ev)
	}
	return events, nil
}

func ParseLastEventID(header string) int64 {
	if header == "" {
		return 0
	}
	id, _ := strconv.ParseInt(header, 10, 64)
	return id
}
