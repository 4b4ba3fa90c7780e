// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля, роль и контактные данные.
// Структуры используются в бизнес‑логике и при работе с хранилищем.
package models

import (
	"fmt"
	"time"
)

// Role роль пользователя в системе. Закрытый набор значений,
// иерархия ролей не выводится — допуски задаются только явными предикатами.
type Role string

// Допустимые роли.
const (
	RoleClient    Role = "CLIENT"
	RoleOperative Role = "OPERATIVE"
	RoleAdmin     Role = "ADMIN"
)

// ParseRole преобразует строку в Role, отклоняя неизвестные значения.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleClient, RoleOperative, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role: %q", s)
	}
}

// IsAdmin сообщает, проходит ли роль проверку "только администратор".
func (r Role) IsAdmin() bool {
	return r == RoleAdmin
}

// IsOperativeOrAdmin сообщает, проходит ли роль проверку "оператор или администратор".
func (r Role) IsOperativeOrAdmin() bool {
	return r == RoleOperative || r == RoleAdmin
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64      // Уникальный идентификатор пользователя
	Name         string     // Имя пользователя
	Email        string     // Электронная почта, хранится в нижнем регистре, уникальная
	PasswordHash string     // Хэш пароля пользователя
	Role         Role       // Роль пользователя: CLIENT, OPERATIVE или ADMIN
	PhoneNumber  *string    // Контактный телефон
	Address      *string    // Адрес
	CreatedAt    time.Time  // Дата создания учетной записи
	LastLoginAt  *time.Time // Дата последнего входа
}

// UserPatch частичное обновление учетной записи: применяются только
// присутствующие (ненулевые) поля.
type UserPatch struct {
	Name        *string
	Email       *string
	Role        *Role
	PhoneNumber *string
	Address     *string
}
