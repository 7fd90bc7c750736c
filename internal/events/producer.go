package events

import (
	"context"
	"encoding/json"
	"time"

	"todoTracker/internal/logger"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	TaskCreated   = "task_created"
	TaskUpdated   = "task_updated"
	TaskCompleted = "task_completed"
	TaskDeleted   = "task_deleted"
)

type TaskEvent struct {
	Action     string    `json:"action"`
	TaskID     int64     `json:"task_id"`
	OwnerID    uuid.UUID `json:"owner_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher отправляет события жизненного цикла задач.
// Доставка best-effort: ошибка логируется и не влияет на операцию.
type Publisher interface {
	Publish(ctx context.Context, action string, taskID int64, ownerID uuid.UUID)
	Close() error
}

type KafkaProducer struct {
	writer *kafka.Writer
}

func NewKafkaProducer(broker, topic string) *KafkaProducer {
	return &KafkaProducer{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(broker),
			Topic:    topic,
			Balancer: &kafka.LeastBytes{},
		},
	}
}

func (p *KafkaProducer) Publish(ctx context.Context, action string, taskID int64, ownerID uuid.UUID) {
	event := TaskEvent{
		Action:     action,
		TaskID:     taskID,
		OwnerID:    ownerID,
		OccurredAt: time.Now(),
	}

	value, err := json.Marshal(event)
	if err != nil {
		logger.Warn("Events: Ошибка сериализации события", zap.Error(err))
		return
	}

	msg := kafka.Message{
		Key:   []byte(ownerID.String()),
		Value: value,
		Time:  event.OccurredAt,
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		logger.Warn("Events: Ошибка отправки события",
			zap.String("action", action),
			zap.Int64("task_id", taskID),
			zap.Error(err))
	}
}

func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
