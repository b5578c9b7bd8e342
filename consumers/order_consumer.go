package consumers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"storefront-service/config"
	"storefront-service/database"
	"storefront-service/mailer"
	"storefront-service/models"
)

// StartOrderConsumer consumes order events. On order creation it sends the
// confirmation email and marks the order's email_sent flag. Email failures
// are logged and not retried; the delivery is acked either way.
func StartOrderConsumer(ch *amqp.Channel, cfg *config.Config, store *database.Store, mail *mailer.Mailer) {
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"storefront-service", // consumer tag
		false,                // auto-ack
		false,                // exclusive
		false,                // no-local
		false,                // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("Failed to register consumer: %v", err)
	}

	go func() {
		for msg := range msgs {
			processOrderMessage(msg, store, mail)
		}
	}()

	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"storefront-service-dlq", // consumer tag
		false,                    // auto-ack
		false,                    // exclusive
		false,                    // no-local
		false,                    // no-wait
		nil,
	)
	if err != nil {
		log.Printf("Failed to register DLQ consumer: %v", err)
		return
	}

	go func() {
		for msg := range dlqMsgs {
			processDeadLetterMessage(msg)
		}
	}()
}

func processOrderMessage(msg amqp.Delivery, store *database.Store, mail *mailer.Mailer) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic in message processing: %v", r)
		}
	}()

	var event models.OrderEvent
	if err := json.Unmarshal(msg.Body, &event); err != nil {
		log.Printf("Invalid message format: %s", msg.Body)
		if err := msg.Nack(false, false); err != nil {
			log.Printf("Failed to nack message: %v", err)
		}
		return
	}

	log.Printf("Processing order event: ID=%s, Type=%s", event.OrderID, event.Type)

	switch event.Type {
	case "created":
		handleOrderCreated(event.OrderID, store, mail)
	case "status_updated":
		log.Printf("Order %s moved to status %s", event.OrderID, event.Status)
	default:
		log.Printf("Unknown event type: %s", event.Type)
	}

	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack message: %v", err)
	}
}

func processDeadLetterMessage(msg amqp.Delivery) {
	log.Printf("Received dead letter: %s", msg.Body)
	if err := msg.Ack(false); err != nil {
		log.Printf("Failed to ack dead letter: %v", err)
	}
}

func handleOrderCreated(orderID string, store *database.Store, mail *mailer.Mailer) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	order, err := store.OrderByID(ctx, orderID)
	if err != nil {
		log.Printf("Failed to load order %s for confirmation email: %v", orderID, err)
		return
	}
	if order.EmailSent {
		return
	}

	if err := mail.SendOrderConfirmation(order); err != nil {
		log.Printf("Failed to send confirmation email for order %s: %v", orderID, err)
		return
	}
	if err := store.MarkEmailSent(ctx, orderID); err != nil {
		log.Printf("Failed to mark email sent for order %s: %v", orderID, err)
	}
}
