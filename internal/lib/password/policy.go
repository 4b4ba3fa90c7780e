// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// ValidatePolicy проверяет стойкость пароля до того, как он попадет в хеширование.
package password

import (
	"errors"
	"unicode"
)

// Ошибки политики паролей. Проверки выполняются строго по порядку,
// возвращается первое нарушенное правило.
var (
	ErrTooShort      = errors.New("password must be at least 8 characters long")
	ErrNoUppercase   = errors.New("password must contain at least one uppercase letter")
	ErrNoDigit       = errors.New("password must contain at least one digit")
	ErrNoSpecialChar = errors.New("password must contain at least one special character")
)

// IsPolicyViolation сообщает, является ли ошибка нарушением политики паролей.
// Текст таких ошибок безопасно показывать клиенту.
func IsPolicyViolation(err error) bool {
	return errors.Is(err, ErrTooShort) ||
		errors.Is(err, ErrNoUppercase) ||
		errors.Is(err, ErrNoDigit) ||
		errors.Is(err, ErrNoSpecialChar)
}

// ValidatePolicy проверяет пароль на соответствие политике:
// длина не меньше 8 символов, хотя бы одна заглавная буква,
// хотя бы одна цифра и хотя бы один специальный символ.
//
// Функция чистая, без побочных эффектов; вызывается до хеширования пароля.
func ValidatePolicy(pwd string) error {
	if len(pwd) < 8 {
		return ErrTooShort
	}
	if !hasUppercase(pwd) {
		return ErrNoUppercase
	}
	if !hasDigit(pwd) {
		return ErrNoDigit
	}
	if !hasSpecialChar(pwd) {
		return ErrNoSpecialChar
	}
	return nil
}

func hasUppercase(pwd string) bool {
	for _, r := range pwd {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

func hasDigit(pwd string) bool {
	for _, r := range pwd {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func hasSpecialChar(pwd string) bool {
	for _, r := range pwd {
		if unicode.IsPunct(r) || unicode.IsSymbol(r) {
			return true
		}
	}
	return false
}
