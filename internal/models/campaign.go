// Package models содержит доменную модель рекламной кампании.
//
// Кампания принадлежит ровно одной подписке и может быть создана только
// против подписки в статусе Active. Инвариант дат: StartDate <= EndDate.
package models

import (
	"fmt"
	"time"
)

// CampaignStatus статус кампании. Начальный статус — Pending; переходы между
// статусами свободные, порядок не навязывается.
type CampaignStatus string

// Допустимые статусы кампании. Значение статуса "On Hold" хранится с пробелом,
// хотя во входных данных исторически принимается написание "On_Hold" —
// соответствие задано явной таблицей в ParseCampaignStatus.
const (
	CampaignPending   CampaignStatus = "Pending"
	CampaignActive    CampaignStatus = "Active"
	CampaignCompleted CampaignStatus = "Completed"
	CampaignOnHold    CampaignStatus = "On Hold"
)

// campaignStatusAliases таблица соответствия входных написаний статуса
// хранимым значениям.
var campaignStatusAliases = map[string]CampaignStatus{
	"Pending":   CampaignPending,
	"Active":    CampaignActive,
	"Completed": CampaignCompleted,
	"On_Hold":   CampaignOnHold,
	"On Hold":   CampaignOnHold,
}

// ParseCampaignStatus преобразует строку в CampaignStatus, принимая оба
// написания статуса удержания.
func ParseCampaignStatus(s string) (CampaignStatus, error) {
	status, ok := campaignStatusAliases[s]
	if !ok {
		return "", fmt.Errorf("unknown campaign status: %q", s)
	}
	return status, nil
}

// Campaign представляет рекламную кампанию, привязанную к подписке.
type Campaign struct {
	ID             int64          // Уникальный идентификатор кампании
	SubscriptionID int64          // Идентификатор подписки-владельца
	Name           string         // Название кампании
	Status         CampaignStatus // Статус: Pending, Active, Completed или On Hold
	StartDate      time.Time      // Дата начала
	EndDate        time.Time      // Дата окончания
	ProductName    string         // Название продукта подписки (заполняется при чтении списком)
}

// CampaignPatch частичное обновление кампании: применяются только
// присутствующие (ненулевые) поля.
type CampaignPatch struct {
	Name      *string
	Status    *CampaignStatus
	StartDate *time.Time
	EndDate   *time.Time
}
