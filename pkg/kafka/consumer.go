package kafka

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// MessageHandler handles messages from a specific topic.
type MessageHandler interface {
	Topic() string
	Handle(context.Context, []byte) error
}

// Consumer wraps a Kafka reader per registered topic. The traffic here is
// low-volume control messages (pipeline refresh notifications), so each
// topic gets a single reader goroutine and no worker pool.
type Consumer struct {
	cfg      *ConsumerConfig
	readers  map[string]*kafka.Reader
	handlers map[string]MessageHandler
	stopChan chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

// NewConsumer creates a new Kafka consumer.
func NewConsumer(opts ...ConsumerOption) (*Consumer, error) {
	cfg := &ConsumerConfig{
		GroupID:     "default",
		MinBytes:    1,
		MaxBytes:    1e6, // 1MB; refresh events are tiny
		ReadTimeout: 3 * time.Second,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("brokers are required")
	}

	return &Consumer{
		cfg:      cfg,
		readers:  make(map[string]*kafka.Reader),
		handlers: make(map[string]MessageHandler),
		stopChan: make(chan struct{}),
	}, nil
}

// RegisterHandler registers a message handler for a specific topic.
func (c *Consumer) RegisterHandler(handler MessageHandler) {
	topic := handler.Topic()
	if _, ok := c.handlers[topic]; ok {
		log.Printf("warn: handler already registered for topic %s", topic)
	} else {
		c.handlers[topic] = handler
	}
}

// Start starts one reader goroutine per registered topic.
func (c *Consumer) Start() error {
	for topic := range c.handlers {
		reader := kafka.NewReader(kafka.ReaderConfig{
			Brokers:  c.cfg.Brokers,
			Topic:    topic,
			GroupID:  c.cfg.GroupID,
			MinBytes: c.cfg.MinBytes,
			MaxBytes: c.cfg.MaxBytes,
		})
		c.readers[topic] = reader
		log.Printf("kafka consumer: registered topic=%s", topic)
	}

	for topic, reader := range c.readers {
		c.wg.Add(1)
		go c.consumeMessages(topic, reader)
	}

	log.Printf("kafka consumer: started successfully")
	return nil
}

// Stop stops the Kafka consumer gracefully.
func (c *Consumer) Stop(ctx context.Context) error {
	var stopErr error

	c.stopOnce.Do(func() {
		log.Println("kafka consumer: stopping...")
		close(c.stopChan)
		stopErr = c.waitForWg(ctx)

		for topic, reader := range c.readers {
			if err := reader.Close(); err != nil {
				log.Printf("error closing reader for topic %s: %v", topic, err)
			}
		}

		if stopErr == nil {
			log.Println("kafka consumer: stopped successfully")
		}
	})

	return stopErr
}

func (c *Consumer) waitForWg(ctx context.Context) error {
	doneChan := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(doneChan)
	}()

	select {
	case <-ctx.Done():
		return fmt.Errorf("timeout waiting for consumer to stop: %w", ctx.Err())
	case <-doneChan:
		return nil
	}
}

func (c *Consumer) consumeMessages(topic string, reader *kafka.Reader) {
	defer c.wg.Done()

	handler := c.handlers[topic]
	for {
		select {
		case <-c.stopChan:
			return
		default:
			ctx, cancel := context.WithTimeout(context.Background(), c.cfg.ReadTimeout)
			msg, err := reader.ReadMessage(ctx)
			cancel()

			if err != nil {
				if !errors.Is(err, context.DeadlineExceeded) {
					log.Printf("error reading message from topic %s: %v", topic, err)
				}
				continue
			}

			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("panic in message handler for topic %s: %v", topic, r)
					}
				}()
				hctx, hcancel := context.WithTimeout(context.Background(), c.cfg.ReadTimeout)
				defer hcancel()
				if err := handler.Handle(hctx, msg.Value); err != nil {
					log.Printf("handler error for topic %s: %v", topic, err)
				}
			}()
		}
	}
}
