// internal/queue/stream.go
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/Slade66/number-generator/pkg/run"
)

const payloadField = "payload"

// Message is one run request read from the stream.
type Message struct {
	ID      string
	Payload string
}

// Decode parses the run request carried by the message.
func (m Message) Decode() (*run.Request, error) {
	var req run.Request
	if err := json.Unmarshal([]byte(m.Payload), &req); err != nil {
		return nil, fmt.Errorf("decode message %s: %w", m.ID, err)
	}
	return &req, nil
}

// Producer appends run requests to a Redis Stream.
type Producer struct {
	rdb    *redis.Client
	stream string
}

func NewProducer(rdb *redis.Client, stream string) *Producer {
	return &Producer{rdb: rdb, stream: stream}
}

// Enqueue publishes req to the stream.
func (p *Producer) Enqueue(ctx context.Context, req *run.Request) error {
	payload, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode run %s: %w", req.ID, err)
	}
	return p.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{payloadField: payload},
	}).Err()
}

// Consumer reads run requests as a member of a consumer group.
type Consumer struct {
	rdb    *redis.Client
	stream string
	group  string
	name   string
}

func NewConsumer(rdb *redis.Client, stream, group, name string) *Consumer {
	return &Consumer{rdb: rdb, stream: stream, group: group, name: name}
}

// EnsureGroup creates the consumer group (and the stream) if needed. It reports
// whether the group was created.
func (c *Consumer) EnsureGroup(ctx context.Context) (bool, error) {
	err := c.rdb.XGroupCreateMkStream(ctx, c.stream, c.group, "$").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			return false, nil
		}
		return false, fmt.Errorf("create consumer group %s: %w", c.group, err)
	}
	return true, nil
}

// Next blocks until a message is delivered to this consumer.
func (c *Consumer) Next(ctx context.Context) (Message, error) {
	streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.group,
		Consumer: c.name,
		Streams:  []string{c.stream, ">"},
		Count:    1,
		Block:    0,
	}).Result()
	if err != nil {
		return Message{}, err
	}
	if len(streams) == 0 || len(streams[0].Messages) == 0 {
		return Message{}, redis.Nil
	}
	msg := streams[0].Messages[0]
	payload, _ := msg.Values[payloadField].(string)
	return Message{ID: msg.ID, Payload: payload}, nil
}

// Ack acknowledges a processed message.
func (c *Consumer) Ack(ctx context.Context, id string) error {
	return c.rdb.XAck(ctx, c.stream, c.group, id).Err()
}
