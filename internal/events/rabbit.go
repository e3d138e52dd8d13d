// Package events publishes order notifications to RabbitMQ.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"artistic-unity-backend/internal/models"
)

const DefaultExchange = "order_submitted"

// Channel is the publishing side of an AMQP channel.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// OrderSubmittedMessage is the envelope fanned out for every recorded order.
type OrderSubmittedMessage struct {
	CorrelationID string       `json:"correlation_id"`
	Exchange      string       `json:"exchange"`
	RoutingKey    string       `json:"routing_key"`
	Message       OrderSummary `json:"message"`
}

type OrderSummary struct {
	OrderID        string `json:"orderId"`
	Timestamp      string `json:"timestamp"`
	Status         string `json:"status"`
	CustomerName   string `json:"customerName"`
	DriveFolderURL string `json:"driveFolderUrl"`
	PhotoCount     int    `json:"photoCount"`
}

type RabbitPublisher struct {
	mu       sync.Mutex
	ch       Channel
	exchange string
	closers  []func() error
}

func NewRabbitPublisher(ch Channel, exchange string) *RabbitPublisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &RabbitPublisher{ch: ch, exchange: exchange}
}

// DialRabbit connects to the broker and declares the durable fanout exchange.
func DialRabbit(url, exchange string) (*RabbitPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	err = ch.ExchangeDeclare(
		exchange,
		amqp091.ExchangeFanout,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	p := NewRabbitPublisher(ch, exchange)
	p.closers = []func() error{ch.Close, conn.Close}
	return p, nil
}

// PublishOrderSubmitted fans out a summary of order. Binary content is never
// included.
func (p *RabbitPublisher) PublishOrderSubmitted(ctx context.Context, order *models.Order) error {
	msg := OrderSubmittedMessage{
		CorrelationID: uuid.NewString(),
		Exchange:      p.exchange,
		RoutingKey:    "",
		Message: OrderSummary{
			OrderID:        order.ID,
			Timestamp:      order.Timestamp,
			Status:         string(order.Status),
			CustomerName:   order.CustomerName(),
			DriveFolderURL: order.DriveFolderURL,
			PhotoCount:     len(order.Photos),
		},
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	err = p.ch.PublishWithContext(ctx, p.exchange, "", false, false, amqp091.Publishing{
		ContentType:   "application/json",
		DeliveryMode:  amqp091.Persistent,
		CorrelationId: msg.CorrelationID,
		MessageId:     order.ID,
		Timestamp:     time.Now().UTC(),
		Type:          p.exchange,
		Body:          body,
	})
	if err != nil {
		return fmt.Errorf("publish order %s: %w", order.ID, err)
	}
	return nil
}

// Close releases the channel and connection opened by DialRabbit.
func (p *RabbitPublisher) Close() error {
	var firstErr error
	for _, c := range p.closers {
		if err := c(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
