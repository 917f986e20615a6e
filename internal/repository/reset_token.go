package repository

import (
	"context"
	"errors"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// ErrTokenSpent — условное погашение не прошло: токен уже погашен или истёк
// между проверкой и записью.
var ErrTokenSpent = errors.New("токен сброса уже погашен или истёк")

type ResetTokenRepository struct {
	db *pgxpool.Pool
}

func NewResetTokenRepository(db *pgxpool.Pool) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO reset_tokens (email, token_hash, expires_at) VALUES ($1,$2,$3) RETURNING id`,
		email, tokenHash, expiresAt,
	).Scan(&id)
	if err != nil {
		logger.Log.Error("Ошибка сохранения токена сброса (repo)", zap.Error(err), zap.String("email", email))
	}
	return id, err
}

func (r *ResetTokenRepository) GetByID(ctx context.Context, id int64) (*models.ResetToken, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, email, token_hash, expires_at, consumed_at, created_at
		FROM reset_tokens
		WHERE id = $1
	`, id)

	var t models.ResetToken
	if err := row.Scan(&t.ID, &t.Email, &t.TokenHash, &t.ExpiresAt, &t.ConsumedAt, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

// ConsumeAndSetPassword гасит токен и ставит новый хеш пароля в одной транзакции.
// Погашение условное: проходит только пока токен не погашен и не истёк,
// иначе ErrTokenSpent и никакой мутации пользователя — это закрывает гонку
// двух параллельных завершений и повтор того же токена.
func (r *ResetTokenRepository) ConsumeAndSetPassword(ctx context.Context, tokenID int64, userID int, passwordHash string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	cmd, err := tx.Exec(ctx, `
		UPDATE reset_tokens
		SET consumed_at = now()
		WHERE id = $1 AND consumed_at IS NULL AND expires_at > now()
	`, tokenID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		logger.Log.Warn("Токен сброса не погашен: уже использован или истёк (repo)", zap.Int64("token_id", tokenID))
		return ErrTokenSpent
	}

	if _, err := tx.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = now() WHERE id = $2`,
		passwordHash, userID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}
