// events содержит fan-out уведомлений о смене состояния связей.
//
// Публикация fire-and-forget в topic-exchange RabbitMQ: routing key — вид
// события (contact.requested / contact.approved / ...). Сбой публикации
// никогда не откатывает мутацию графа — вызывающая сторона обязана лишь
// залогировать ошибку.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pribylovaa/contacts-service/internal/models"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher — контракт канала уведомлений.
type Publisher interface {
	// PublishContactEvent публикует событие для второй стороны связи.
	PublishContactEvent(ctx context.Context, event *models.ContactEvent) error
	// Close закрывает соединение с брокером.
	Close() error
}

// AMQPPublisher — реализация Publisher поверх RabbitMQ.
// Пустой URL брокера даёт выключенный publisher (no-op): удобно для
// локального запуска и тестов.
type AMQPPublisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
}

// New подключается к брокеру и объявляет durable topic-exchange.
// При пустом amqpURL возвращает выключенный publisher без соединения.
func New(amqpURL, exchange string) (*AMQPPublisher, error) {
	const op = "events/New"

	if exchange == "" {
		exchange = "contacts.events"
	}

	if amqpURL == "" {
		return &AMQPPublisher{exchange: exchange, enabled: false}, nil
	}

	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := channel.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &AMQPPublisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
	}, nil
}

// PublishContactEvent публикует событие с routing key равным его виду.
func (p *AMQPPublisher) PublishContactEvent(ctx context.Context, event *models.ContactEvent) error {
	const op = "events/PublishContactEvent"

	if !p.enabled {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		string(event.Kind), // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Timestamp:   time.Now().UTC(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// Close закрывает канал и соединение.
func (p *AMQPPublisher) Close() error {
	if !p.enabled {
		return nil
	}

	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}

	return p.conn.Close()
}

// Проверка выполнения контракта.
var _ Publisher = (*AMQPPublisher)(nil)
