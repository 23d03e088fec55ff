package main

import (
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/expertlink/api/config"
	"github.com/expertlink/api/internal/domain/entity"
	"github.com/expertlink/api/pkg/helpers"
)

// The audit worker drains coin transfer events from the queue and
// writes a structured audit line per transfer. The transactional row
// in coin_transfers is the source of truth; this trail is for ops and
// archival, so events are acked even on skew and never retried forever.
func main() {
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-audit", cfg.Env)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQAuditQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("amqp dial: %v", err)
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		log.Fatalf("amqp channel: %v", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(16, 0, false); err != nil {
		log.Fatalf("qos: %v", err)
	}

	if _, err := ch.QueueDeclare(cfg.RabbitMQAuditQueue, true, false, false, false, nil); err != nil {
		log.Fatalf("queue declare: %v", err)
	}

	msgs, err := ch.Consume(cfg.RabbitMQAuditQueue, "", false, false, false, false, nil)
	if err != nil {
		log.Fatalf("consume: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	go func() {
		for msg := range msgs {
			var ev entity.TransferEvent
			if err := json.Unmarshal(msg.Body, &ev); err != nil {
				logger.WithError(err).Warn("bad audit message")
				_ = msg.Nack(false, false)
				continue
			}
			logger.WithFields(logrus.Fields{
				"sender":            ev.SenderEmail,
				"recipient":         ev.RecipientEmail,
				"amount":            ev.Amount,
				"sender_balance":    ev.SenderBalance,
				"recipient_balance": ev.RecipientBalance,
				"at":                ev.CreatedAt,
			}).Info("coin transfer")
			_ = msg.Ack(false)
		}
		close(done)
	}()

	logger.Infof("audit worker consuming %s", cfg.RabbitMQAuditQueue)
	<-stop
	logger.Info("shutting down audit worker")
	_ = ch.Close()
	<-done
}
