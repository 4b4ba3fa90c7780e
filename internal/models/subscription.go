// Package models содержит доменную модель подписки.
//
// Подписка связывает пользователя с продуктом. Инвариант: для пары
// (пользователь, продукт) в любой момент времени существует не более одной
// подписки в статусе Active.
package models

import (
	"fmt"
	"time"
)

// SubscriptionStatus статус подписки.
type SubscriptionStatus string

// Допустимые статусы подписки.
const (
	SubscriptionActive    SubscriptionStatus = "Active"
	SubscriptionCancelled SubscriptionStatus = "Cancelled"
	SubscriptionExpired   SubscriptionStatus = "Expired"
)

// ParseSubscriptionStatus преобразует строку в SubscriptionStatus.
func ParseSubscriptionStatus(s string) (SubscriptionStatus, error) {
	switch SubscriptionStatus(s) {
	case SubscriptionActive, SubscriptionCancelled, SubscriptionExpired:
		return SubscriptionStatus(s), nil
	default:
		return "", fmt.Errorf("unknown subscription status: %q", s)
	}
}

// Subscription представляет подписку пользователя на продукт.
// Поле EndDate может быть nil — подписка без даты окончания.
type Subscription struct {
	ID        int64              // Уникальный идентификатор подписки
	UserID    int64              // Идентификатор пользователя-владельца
	ProductID int64              // Идентификатор продукта
	Status    SubscriptionStatus // Статус: Active, Cancelled или Expired
	StartDate time.Time          // Дата начала
	EndDate   *time.Time         // Дата окончания, опционально
}
