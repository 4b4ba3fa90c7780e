package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/streadway/amqp"
)

// NotifyPublisher публикует события уведомлений в exchange "notifications".
type NotifyPublisher struct {
	ch *amqp.Channel
}

// NewNotifyPublisher создает издателя поверх открытого канала.
func NewNotifyPublisher(ch *amqp.Channel) *NotifyPublisher {
	return &NotifyPublisher{ch: ch}
}

// Publish публикует событие с указанным ключом маршрутизации.
func (p *NotifyPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, "notifications", routingKey, message)
}

// PublishMessage публикует сообщение в RabbitMQ в формате JSON
// с persistent-доставкой и уникальным MessageId.
func PublishMessage(ch *amqp.Channel, exchange string, routingkey string, message any) error {
	const op = "rabbitmq.PublishMessage"
	body, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = ch.Publish(
		exchange,
		routingkey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			MessageId:    uuid.NewString(),
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
