package models

import "time"

// ResetToken — серверная запись выданного секрета сброса пароля.
// В базе хранится только bcrypt-хеш секрета, сам секрет уходит в письме.
// Жизненный цикл: создан → истёк (по часам) | погашен (одно успешное применение).
type ResetToken struct {
	ID         int64      `json:"id"`
	Email      string     `json:"email"`
	TokenHash  string     `json:"-"`
	ExpiresAt  time.Time  `json:"expires_at"`
	ConsumedAt *time.Time `json:"consumed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
