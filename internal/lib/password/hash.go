// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// GetHash создает argon2id-хеш пароля для безопасного хранения.
// CompareHash сравнивает исходный argon2id-хеш с введённым паролем, проверяя их соответствие.
package password

import (
	"errors"
	"fmt"

	"github.com/alexedwards/argon2id"
)

// ErrMismatch возвращается, когда пароль не соответствует хешу
// либо сохраненный хеш поврежден и не может быть разобран.
var ErrMismatch = errors.New("password does not match hash")

// GetHash принимает пароль пользователя и возвращает его argon2id‑хэш.
//
// Используется для безопасного хранения паролей в базе данных.
func GetHash(password string) (string, error) {
	const op = "password.GetHash"
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hash, nil
}

// CompareHash сравнивает argon2id‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ErrMismatch.
// Некорректный или поврежденный хеш также трактуется как несоответствие,
// ошибка наружу не пробрасывается.
func CompareHash(originalHash, externalPassword string) error {
	match, err := argon2id.ComparePasswordAndHash(externalPassword, originalHash)
	if err != nil || !match {
		return ErrMismatch
	}
	return nil
}
