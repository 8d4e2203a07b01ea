// Package publish feeds recorded work items to a Kafka results topic so
// the downstream cleaning pipeline can consume them incrementally instead
// of polling the snapshot file.
package publish

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/segmentio/kafka-go"

	"workitem-mirror/internal/models"
)

// ItemPublisher publishes one recorded work item.
type ItemPublisher interface {
	WriteItem(ctx context.Context, sessionID string, item models.WorkItem) error
}

// MessageWriter abstracts kafka.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer wraps a Kafka writer for publishing crawl results.
type Producer struct {
	writer MessageWriter
}

// NewProducer creates a producer for the given broker and topic.
func NewProducer(broker, topic string) *Producer {
	return &Producer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(broker),
			Topic:                  topic,
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: false,
		},
	}
}

// NewProducerWithWriter builds a producer using a custom writer (tests).
func NewProducerWithWriter(writer MessageWriter) *Producer {
	return &Producer{writer: writer}
}

// Close shuts down the underlying writer.
func (p *Producer) Close() error {
	return p.writer.Close()
}

// WriteItem publishes a CrawlResult keyed by session id.
func (p *Producer) WriteItem(ctx context.Context, sessionID string, item models.WorkItem) error {
	payload, err := json.Marshal(models.CrawlResult{
		SessionID:  sessionID,
		Item:       item,
		RecordedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Key:   []byte(sessionID),
		Value: payload,
		Time:  time.Now().UTC(),
	}
	return p.writer.WriteMessages(ctx, msg)
}

// Sink adapts an ItemPublisher to the crawler's record hook. Publish
// failures are logged and dropped; the crawl never depends on the broker.
type Sink struct {
	publisher ItemPublisher
	sessionID string
}

// NewSink binds a publisher to one crawl session.
func NewSink(publisher ItemPublisher, sessionID string) *Sink {
	return &Sink{publisher: publisher, sessionID: sessionID}
}

// Record publishes one recorded item.
func (s *Sink) Record(ctx context.Context, item models.WorkItem) {
	if err := s.publisher.WriteItem(ctx, s.sessionID, item); err != nil {
		log.Printf("result publish failed id=%d: %v", item.ID, err)
	}
}
