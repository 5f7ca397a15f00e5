package store

import (
	"delivery-tracker/internal/domain"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// changeMessage is the JSON notification both the Redis channel and the
// Postgres trigger publish for every mutation. The trigger leaves Record
// out; the Postgres relay reads it by key.
type changeMessage struct {
	Collection string          `json:"collection,omitempty"`
	Op         string          `json:"op"`
	Key        string          `json:"key"`
	Record     json.RawMessage `json:"record,omitempty"`
}

func encodeChange(collection string, ev domain.ChangeEvent) ([]byte, error) {
	msg := changeMessage{Collection: collection, Op: ev.Kind.String(), Key: ev.Key}
	if ev.Kind != domain.EventRemoved {
		rec, err := json.Marshal(ev.Delivery)
		if err != nil {
			return nil, fmt.Errorf("encode change: marshal record: %w", err)
		}
		msg.Record = rec
	}

	b, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("encode change: %w", err)
	}
	return b, nil
}

// decodeChange parses a notification. A record that fails to decode is
// passed on as a zero Delivery; only an unreadable envelope is an error.
func decodeChange(payload []byte, log logrus.FieldLogger) (string, domain.ChangeEvent, error) {
	var msg changeMessage
	if err := json.Unmarshal(payload, &msg); err != nil {
		return "", domain.ChangeEvent{}, fmt.Errorf("decode change: %w", err)
	}

	var kind domain.EventKind
	switch msg.Op {
	case "added":
		kind = domain.EventAdded
	case "changed":
		kind = domain.EventChanged
	case "removed":
		return msg.Collection, domain.Removed(msg.Key), nil
	default:
		return "", domain.ChangeEvent{}, fmt.Errorf("decode change: unknown op %q", msg.Op)
	}

	return msg.Collection, domain.ChangeEvent{
		Kind:     kind,
		Key:      msg.Key,
		Delivery: decodeRecord(msg.Key, msg.Record, log),
	}, nil
}

func decodeRecord(key string, raw []byte, log logrus.FieldLogger) domain.Delivery {
	var d domain.Delivery
	if len(raw) == 0 {
		return d
	}
	if err := json.Unmarshal(raw, &d); err != nil {
		log.WithError(err).WithField("key", key).Warn("malformed record payload")
		return domain.Delivery{}
	}
	return d
}
