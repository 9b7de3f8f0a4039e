// Package kafka runs the replica sync consumer for organization status events.
package kafka

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"time"

	organization "github.com/ortelius/orgmap-backend/events/modules/organizations"
	"github.com/ortelius/orgmap-backend/internal/config"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/sasl/plain"
	"go.uber.org/zap"
)

// NewDialer builds the broker dialer, with SASL/PLAIN over TLS when
// KAFKA_API_KEY and KAFKA_API_SECRET are set
func NewDialer() *kafka.Dialer {
	username := os.Getenv("KAFKA_API_KEY")
	password := os.Getenv("KAFKA_API_SECRET")

	if username != "" && password != "" {
		return &kafka.Dialer{
			Timeout:       10 * time.Second,
			DualStack:     true,
			SASLMechanism: plain.Mechanism{Username: username, Password: password},
			TLS:           &tls.Config{MinVersion: tls.VersionTLS12},
		}
	}
	return &kafka.Dialer{
		Timeout:   10 * time.Second,
		DualStack: true,
	}
}

// RunEventProcessor starts consuming status events in the background.
// Each replica joins its own consumer group so every replica sees every event.
func RunEventProcessor(ctx context.Context, cfg config.KafkaConfig, replica string, service organization.RegistryService, logger *zap.Logger) error {
	if len(cfg.Brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	dialer := NewDialer()

	var err error
	for i := 1; i <= 3; i++ {
		logger.Info("Kafka connection attempt", zap.Int("attempt", i), zap.Int("max", 3))
		var conn *kafka.Conn
		conn, err = dialer.DialContext(ctx, "tcp", cfg.Brokers[0])
		if err == nil {
			conn.Close()
			break
		}
		if i < 3 {
			time.Sleep(2 * time.Second)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to reach kafka broker %s: %w", cfg.Brokers[0], err)
	}

	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID + "-" + replica,
		Topic:    cfg.Topic,
		MaxBytes: 10e6,
		Dialer:   dialer,
	})

	go func() {
		defer reader.Close()
		logger.Info("Kafka event processor started", zap.String("topic", cfg.Topic), zap.String("replica", replica))

		for {
			msg, err := reader.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				logger.Warn("Failed to read kafka message", zap.Error(err))
				continue
			}
			if err := organization.HandleStatusUpdatedWithService(ctx, msg.Value, service, logger); err != nil {
				logger.Warn("Failed to process event", zap.Int64("offset", msg.Offset), zap.Error(err))
			}
		}
	}()

	return nil
}
