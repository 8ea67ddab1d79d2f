package flash

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	KindSuccess = "success"
	KindError   = "error"

	cookieName = "flash_session"
	ttl        = 15 * time.Minute
)

// Message is a one-shot user-facing notification, surfaced on the next
// rendered page and discarded.
type Message struct {
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Store queues flash messages in Redis, keyed by a session cookie.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Add queues a message for the session, creating the session cookie if the
// request does not carry one yet.
func (s *Store) Add(ctx context.Context, w http.ResponseWriter, r *http.Request, kind, text string) error {
	sid := s.sessionID(w, r)
	data, err := json.Marshal(Message{Kind: kind, Text: text})
	if err != nil {
		return err
	}
	key := flashKey(sid)
	pipe := s.client.TxPipeline()
	pipe.RPush(ctx, key, data)
	pipe.Expire(ctx, key, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Pop drains and returns the session's queued messages.
func (s *Store) Pop(ctx context.Context, w http.ResponseWriter, r *http.Request) []Message {
	cookie, err := r.Cookie(cookieName)
	if err != nil {
		return nil
	}
	key := flashKey(cookie.Value)

	pipe := s.client.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil
	}

	var messages []Message
	for _, raw := range rangeCmd.Val() {
		var msg Message
		if err := json.Unmarshal([]byte(raw), &msg); err != nil {
			continue
		}
		messages = append(messages, msg)
	}
	return messages
}

func (s *Store) sessionID(w http.ResponseWriter, r *http.Request) string {
	if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	sid := uuid.New().String()
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
	})
	return sid
}

func flashKey(sid string) string {
	return "flash:" + sid
}
