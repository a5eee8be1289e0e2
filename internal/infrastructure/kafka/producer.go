package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/einspot/storefront/internal/cfg"
	"github.com/einspot/storefront/internal/usecase"
	"github.com/einspot/storefront/pkg/e"
	"github.com/einspot/storefront/pkg/jitter"
	"github.com/einspot/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
	"github.com/segmentio/kafka-go"
)

// Producer публикует события активности корзины в Kafka.
// Публикация асинхронная: мутации корзины не ждут брокера и не зависят от него.
type Producer struct {
	writer     *kafka.Writer
	logger     logger.Logger
	cfg        *cfg.KafkaCfg
	maxRetries int
	wg         sync.WaitGroup
}

func NewProducer(logger logger.Logger, cfg *cfg.KafkaCfg, maxRetries int) (*Producer, error) {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchSize:    10,
		BatchTimeout: 500 * time.Millisecond,
		WriteTimeout: 10 * time.Second,
		Completion: func(messages []kafka.Message, err error) {
			if err != nil {
				logger.Warnf("Kafka producer error: %s", err.Error())
			}
		},
	}

	return &Producer{
		writer:     writer,
		logger:     logger,
		cfg:        cfg,
		maxRetries: maxRetries,
	}, nil
}

// PublishAsync публикует событие в фоне с ограниченным числом повторов.
// Неудача публикации логируется и никак не влияет на состояние корзины.
func (p *Producer) PublishAsync(event *usecase.CartEvent) {
	const op = "Producer.PublishAsync"

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		value, err := json.Marshal(event)
		if err != nil {
			p.logger.Warnf("Failed to marshal cart event: %v", e.Wrap(op, err))
			return
		}

		msg := kafka.Message{
			Key:   []byte(event.CartID),
			Value: value,
		}

		const (
			baseBackoff = 250 * time.Millisecond
			maxBackoff  = 5 * time.Second
		)

		for attempt := 0; ; attempt++ {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = p.writer.WriteMessages(ctx, msg)
			cancel()

			if err == nil {
				return
			}

			if attempt >= p.maxRetries {
				p.logger.Warnf("Dropping cart event after %d attempts. event_id: %s: %v",
					attempt+1, event.EventID, e.Wrap(op, err))
				return
			}

			time.Sleep(jitter.ExponentialBackoff(baseBackoff, maxBackoff, attempt, jitter.DefaultJitter))
		}
	}()
}

// EnsureTopic создаёт топик событий, если его ещё нет.
func (p *Producer) EnsureTopic(timeout time.Duration) error {
	conn, err := kafka.Dial(p.cfg.NetworkMode, p.cfg.Brokers[0])
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions(p.cfg.Topic)
	if err == nil && len(partitions) > 0 {
		return nil
	}

	done := make(chan error, 1)
	go func() {
		done <- conn.CreateTopics(kafka.TopicConfig{
			Topic:             p.cfg.Topic,
			NumPartitions:     p.cfg.Partitions,
			ReplicationFactor: p.cfg.ReplicationFactor,
		})
	}()

	select {
	case err := <-done:
		if err != nil {
			return e.Wrap(whereami.WhereAmI(), fmt.Errorf("failed to create topic %s: %w", p.cfg.Topic, err))
		}
		return nil
	case <-time.After(timeout):
		_ = conn.Close()
		return e.Wrap(whereami.WhereAmI(), fmt.Errorf("timeout: %v, topic: %s", timeout, p.cfg.Topic))
	}
}

// Close дожидается фоновых публикаций (пока жив ctx) и закрывает writer.
func (p *Producer) Close(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		p.logger.Warnf("Kafka producer closed with pending cart events")
	}

	return p.writer.Close()
}
