package services

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/utils"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrUserNotFound     = errors.New("пользователь не найден")
	ErrTokenNotFound    = errors.New("токен не найден")
	ErrTokenInvalid     = errors.New("неверный токен")
	ErrTokenExpired     = errors.New("токен истёк")
	ErrPasswordTooShort = errors.New("слишком короткий пароль")
)

// Срок жизни секрета сброса — инвариант, не настройка.
const resetTokenTTL = time.Hour

const minPasswordLen = 6

type PasswordResetService struct {
	tokens      ResetTokenRepo
	users       UserByEmailReader
	emailSender ResetEmailSender
	frontendURL string
}

type ResetTokenRepo interface {
	Create(ctx context.Context, email, tokenHash string, expiresAt time.Time) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.ResetToken, error)
	ConsumeAndSetPassword(ctx context.Context, tokenID int64, userID int, passwordHash string) error
}

type UserByEmailReader interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

type ResetEmailSender interface {
	SendPasswordReset(to, resetLink string) error
}

func NewPasswordResetService(tokens ResetTokenRepo, users UserByEmailReader, emailSender ResetEmailSender, frontendURL string) *PasswordResetService {
	return &PasswordResetService{
		tokens:      tokens,
		users:       users,
		emailSender: emailSender,
		frontendURL: frontendURL,
	}
}

// RequestReset выпускает одноразовый секрет сброса и отправляет письмо со ссылкой.
// Email нормализуется один раз здесь: и в записи токена, и в payload ссылки
// оказывается одна и та же строка, иначе точное сравнение при завершении не сойдётся.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))
	logger.Log.Info("Запрос на сброс пароля", zap.String("email", email))

	if _, err := s.users.GetUserByEmail(ctx, email); err != nil {
		logger.Log.Warn("Не найден пользователь по email при запросе сброса",
			zap.String("email", email),
			zap.Error(err),
		)
		return ErrUserNotFound
	}

	// Криптостойкий секрет: 32 байта → 256 бит, в base64url двоеточий не бывает
	raw := make([]byte, 32)
	if _, err := rand.Read(raw); err != nil {
		logger.Log.Error("Ошибка генерации секрета сброса", zap.Error(err))
		return fmt.Errorf("generate reset secret: %w", err)
	}
	secret := base64.RawURLEncoding.EncodeToString(raw)

	// В базе храним только медленный хеш, сам секрет уходит в письме
	tokenHash, err := utils.HashPassword(secret)
	if err != nil {
		logger.Log.Error("Ошибка хеширования секрета сброса", zap.Error(err))
		return fmt.Errorf("hash reset secret: %w", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	tokenID, err := s.tokens.Create(ctx, email, tokenHash, expires)
	if err != nil {
		logger.Log.Error("Ошибка сохранения токена сброса пароля",
			zap.String("email", email),
			zap.Error(err),
		)
		return fmt.Errorf("save reset token: %w", err)
	}

	payload := utils.EncodeResetPayload(email, secret, tokenID)
	resetLink := utils.BuildResetLink(s.frontendURL, payload)

	if err := s.emailSender.SendPasswordReset(email, resetLink); err != nil {
		// Токен уже записан, но без письма у клиента нет payload — запись
		// безвредна, повторный запрос просто создаст ещё один токен.
		logger.Log.Error("Ошибка отправки письма для сброса пароля",
			zap.String("email", email),
			zap.Int64("token_id", tokenID),
			zap.Error(err),
		)
		return fmt.Errorf("send reset mail: %w", err)
	}

	logger.Log.Info("Письмо со ссылкой на сброс пароля отправлено",
		zap.String("email", email),
		zap.Int64("token_id", tokenID),
		zap.Time("expires_at", expires),
	)
	return nil
}

// CompleteReset сверяет предъявленный секрет с записью токена и при совпадении
// меняет пароль. Проверки идут по порядку, каждая неудача обрывает дальнейшие;
// пользователь не мутируется ни на одной ветке отказа.
func (s *PasswordResetService) CompleteReset(ctx context.Context, email, secret string, tokenID int64, newPassword string) error {
	logger.Log.Info("Попытка завершения сброса пароля", zap.Int64("token_id", tokenID))

	if len(newPassword) < minPasswordLen {
		logger.Log.Warn("Слишком короткий новый пароль", zap.Int64("token_id", tokenID))
		return ErrPasswordTooShort
	}

	token, err := s.tokens.GetByID(ctx, tokenID)
	if err != nil {
		logger.Log.Warn("Токен сброса не найден", zap.Int64("token_id", tokenID), zap.Error(err))
		return ErrTokenNotFound
	}

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.Warn("Пользователь не найден при сбросе", zap.String("email", email), zap.Error(err))
		return ErrUserNotFound
	}

	// Точное сравнение: защита от payload, где валидная пара id/секрет
	// подклеена к чужому email
	if token.Email != email {
		logger.Log.Warn("Email в токене не совпадает с предъявленным",
			zap.Int64("token_id", tokenID),
		)
		return ErrTokenInvalid
	}

	if time.Now().After(token.ExpiresAt) {
		logger.Log.Warn("Токен сброса истёк",
			zap.Int64("token_id", tokenID),
			zap.Time("expires_at", token.ExpiresAt),
		)
		return ErrTokenExpired
	}

	if token.ConsumedAt != nil {
		logger.Log.Warn("Повторное использование погашенного токена сброса",
			zap.Int64("token_id", tokenID),
		)
		return ErrTokenInvalid
	}

	if bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)) != nil {
		logger.Log.Warn("Секрет сброса не совпал с хешем", zap.Int64("token_id", tokenID))
		return ErrTokenInvalid
	}

	newHash, err := utils.HashPassword(newPassword)
	if err != nil {
		logger.Log.Error("Ошибка генерации хеша пароля", zap.Error(err), zap.Int("user_id", user.ID))
		return err
	}

	// Погашение токена и смена пароля — одна условная транзакция
	if err := s.tokens.ConsumeAndSetPassword(ctx, token.ID, user.ID, newHash); err != nil {
		if errors.Is(err, repository.ErrTokenSpent) {
			return ErrTokenInvalid
		}
		logger.Log.Error("Ошибка применения сброса пароля",
			zap.Int64("token_id", tokenID),
			zap.Int("user_id", user.ID),
			zap.Error(err),
		)
		return err
	}

	logger.Log.Info("Пароль успешно сброшен", zap.Int("user_id", user.ID), zap.Int64("token_id", tokenID))
	return nil
}
