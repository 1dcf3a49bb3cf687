// Package password хеширует и проверяет пароли через bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost стоимость bcrypt для паролей пользователей.
const DefaultCost = 12

// MaxBytes предел длины пароля для bcrypt.
const MaxBytes = 72

var (
	// ErrMismatch пароль не совпал с хешем.
	ErrMismatch = errors.New("password does not match")
	// ErrTooLong пароль длиннее MaxBytes байт.
	ErrTooLong = errors.New("password is too long")
)

// GetHash возвращает bcrypt-хеш пароля со стоимостью DefaultCost.
func GetHash(password string) (string, error) {
	return GetHashCost(password, DefaultCost)
}

// GetHashCost то же, что GetHash, но с явной стоимостью.
func GetHashCost(password string, cost int) (string, error) {
	const op = "password.GetHash"
	if len(password) > MaxBytes {
		return "", fmt.Errorf("%s: %w", op, ErrTooLong)
	}
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt-хеш с введённым паролем.
// Несовпадение возвращается как ErrMismatch, битый хеш как прочая ошибка.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return fmt.Errorf("%s: %w", op, ErrMismatch)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}
