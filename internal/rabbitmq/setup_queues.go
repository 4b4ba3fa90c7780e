package rabbitmq

// QueueConfig описывает очередь и ключ маршрутизации в exchange "notifications".
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// Ключи маршрутизации событий уведомлений.
const (
	RoutingKeyUserRegistered  = "user.registered"
	RoutingKeyCampaignStatus  = "campaign.status"
	QueueUserRegistered       = "notifications.registered"
	QueueCampaignStatusChange = "notifications.campaign-status"
)

// GetNotificationQueues возвращает конфигурацию очередей уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: QueueUserRegistered, RoutingKey: RoutingKeyUserRegistered},
		{QueueName: QueueCampaignStatusChange, RoutingKey: RoutingKeyCampaignStatus},
	}
}
