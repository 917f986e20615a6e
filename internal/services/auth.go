package services

import (
	"context"
	"errors"
	"fmt"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"projecthub/internal/utils"
	"strings"
	"time"

	"go.uber.org/zap"
)

var (
	ErrInvalidCredentials = errors.New("неверный логин или пароль")
	ErrValidation         = errors.New("ошибка валидации")
)

type AuthService struct {
	repo UserRepo
}

func NewAuthService(repo UserRepo) *AuthService {
	return &AuthService{repo: repo}
}

type UserRepo interface {
	IsUsernameTaken(ctx context.Context, username string) (bool, error)
	IsEmailTaken(ctx context.Context, email string) (bool, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int) (*models.User, error)
	GetAllUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserFields(ctx context.Context, id int, input *models.UpdateUserRequest, passwordHash string) error
	DeleteUserByID(ctx context.Context, id int) (bool, error)
	CountUsers(ctx context.Context) (int, error)
	SaveRefreshToken(ctx context.Context, userID int, token string) error
	IsRefreshTokenValid(ctx context.Context, userID int, token string) (bool, error)
	DeleteRefreshToken(ctx context.Context, userID int, token string) error
}

// RegisterUser создаёт пользователя с хешированным паролем. Открытый пароль
// нигде не сохраняется и не сравнивается.
func (s *AuthService) RegisterUser(ctx context.Context, input *models.User, plainPassword string) error {
	logger.Log.Info("Регистрация пользователя (service)", zap.String("username", input.Username), zap.String("email", input.Email))

	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(strings.ToLower(input.Email))

	if input.Username == "" {
		return fmt.Errorf("%w: пустой username", ErrValidation)
	}
	// email без "@" невалиден; ":" зарезервирован под разделитель payload сброса
	if !strings.Contains(input.Email, "@") || strings.Contains(input.Email, ":") {
		return fmt.Errorf("%w: некорректный email", ErrValidation)
	}
	if len(plainPassword) < minPasswordLen {
		return fmt.Errorf("%w: пароль короче %d символов", ErrValidation, minPasswordLen)
	}

	if exists, err := s.repo.IsUsernameTaken(ctx, input.Username); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки username", zap.Error(err))
			return err
		}
		return fmt.Errorf("%w: имя пользователя уже занято", ErrValidation)
	}
	if exists, err := s.repo.IsEmailTaken(ctx, input.Email); exists || err != nil {
		if err != nil {
			logger.Log.Error("Ошибка проверки email", zap.Error(err))
			return err
		}
		return fmt.Errorf("%w: адрес электронной почты уже зарегистрирован", ErrValidation)
	}

	hashed, err := utils.HashPassword(plainPassword)
	if err != nil {
		logger.Log.Error("Ошибка хеширования пароля", zap.Error(err))
		return err
	}

	input.PasswordHash = hashed
	if input.Role == "" {
		input.Role = "user"
	}

	if err := s.repo.CreateUser(ctx, input); err != nil {
		logger.Log.Error("Ошибка создания пользователя", zap.Error(err))
		return err
	}
	logger.Log.Info("Пользователь зарегистрирован (service)", zap.String("username", input.Username))
	return nil
}

func (s *AuthService) LoginUser(
	ctx context.Context,
	username, password, jwtSecret string,
	accessTTL, refreshTTL time.Duration,
) (string, string, *models.User, error) {
	logger.Log.Info("Попытка входа (service)", zap.String("username", username))
	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		logger.Log.Warn("Пользователь не найден (service)", zap.String("username", username), zap.Error(err))
		return "", "", nil, ErrInvalidCredentials
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Log.Warn("Неверный пароль (service)", zap.String("username", username))
		return "", "", nil, ErrInvalidCredentials
	}

	accessToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, accessTTL, "access")
	if err != nil {
		logger.Log.Error("Ошибка генерации access-токена", zap.Error(err))
		return "", "", nil, err
	}

	refreshToken, err := utils.GenerateToken(jwtSecret, user.ID, user.Role, refreshTTL, "refresh")
	if err != nil {
		logger.Log.Error("Ошибка генерации refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	if err := s.repo.SaveRefreshToken(ctx, user.ID, refreshToken); err != nil {
		logger.Log.Error("Ошибка сохранения refresh-токена", zap.Error(err))
		return "", "", nil, err
	}

	logger.Log.Info("Вход выполнен (service)", zap.String("username", username), zap.String("role", user.Role))
	return accessToken, refreshToken, user, nil
}

func (s *AuthService) ValidateRefreshToken(ctx context.Context, userID int, token string) (bool, error) {
	logger.Log.Debug("Проверка refresh токена (service)", zap.Int("user_id", userID))
	return s.repo.IsRefreshTokenValid(ctx, userID, token)
}

func (s *AuthService) Logout(ctx context.Context, userID int, refreshToken string) error {
	logger.Log.Info("Выход пользователя (service)", zap.Int("user_id", userID))
	return s.repo.DeleteRefreshToken(ctx, userID, refreshToken)
}

func (s *AuthService) GetUsers(ctx context.Context) ([]*models.User, error) {
	return s.repo.GetAllUsers(ctx)
}

func (s *AuthService) GetUserByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateUser — частичное обновление; пароль, если задан, хешируется и
// заменяется целиком.
func (s *AuthService) UpdateUser(ctx context.Context, id int, input *models.UpdateUserRequest) error {
	if _, err := s.repo.GetUserByID(ctx, id); err != nil {
		return ErrUserNotFound
	}

	if input.Email != nil {
		email := strings.TrimSpace(strings.ToLower(*input.Email))
		if !strings.Contains(email, "@") || strings.Contains(email, ":") {
			return fmt.Errorf("%w: некорректный email", ErrValidation)
		}
		input.Email = &email
	}
	if input.Role != nil && *input.Role != "admin" && *input.Role != "user" {
		return fmt.Errorf("%w: недопустимая роль %q", ErrValidation, *input.Role)
	}

	passwordHash := ""
	if input.Password != nil {
		if len(*input.Password) < minPasswordLen {
			return fmt.Errorf("%w: пароль короче %d символов", ErrValidation, minPasswordLen)
		}
		hashed, err := utils.HashPassword(*input.Password)
		if err != nil {
			logger.Log.Error("Ошибка хеширования пароля при обновлении", zap.Error(err), zap.Int("user_id", id))
			return err
		}
		passwordHash = hashed
	}

	return s.repo.UpdateUserFields(ctx, id, input, passwordHash)
}

func (s *AuthService) DeleteUser(ctx context.Context, id int) error {
	deleted, err := s.repo.DeleteUserByID(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrUserNotFound
	}
	return nil
}
