package services

import (
	"context"
	"errors"
	"projecthub/internal/models"
	"projecthub/internal/utils"
	"testing"
	"time"
)

// Мок-репозиторий (заглушка)
type mockUserRepo struct {
	users    map[string]*models.User
	lastUser *models.User
	deleted  []int
}

func (m *mockUserRepo) IsUsernameTaken(_ context.Context, username string) (bool, error) {
	_, exists := m.users[username]
	return exists, nil
}

func (m *mockUserRepo) IsEmailTaken(_ context.Context, email string) (bool, error) {
	for _, u := range m.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CreateUser(_ context.Context, user *models.User) error {
	m.users[user.Username] = user
	m.lastUser = user
	return nil
}

func (m *mockUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

func (m *mockUserRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetUserByID(_ context.Context, id int) (*models.User, error) {
	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockUserRepo) GetAllUsers(_ context.Context) ([]*models.User, error) {
	var out []*models.User
	for _, u := range m.users {
		out = append(out, u)
	}
	return out, nil
}

func (m *mockUserRepo) UpdateUserFields(_ context.Context, id int, input *models.UpdateUserRequest, passwordHash string) error {
	for _, u := range m.users {
		if u.ID != id {
			continue
		}
		if input.Email != nil {
			u.Email = *input.Email
		}
		if input.Role != nil {
			u.Role = *input.Role
		}
		if passwordHash != "" {
			u.PasswordHash = passwordHash
		}
		return nil
	}
	return errors.New("not found")
}

func (m *mockUserRepo) DeleteUserByID(_ context.Context, id int) (bool, error) {
	for username, u := range m.users {
		if u.ID == id {
			delete(m.users, username)
			m.deleted = append(m.deleted, id)
			return true, nil
		}
	}
	return false, nil
}

func (m *mockUserRepo) CountUsers(_ context.Context) (int, error) {
	return len(m.users), nil
}

func (m *mockUserRepo) SaveRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}
func (m *mockUserRepo) IsRefreshTokenValid(_ context.Context, userID int, token string) (bool, error) {
	return true, nil
}
func (m *mockUserRepo) DeleteRefreshToken(_ context.Context, userID int, token string) error {
	return nil
}

func TestRegisterUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	user := &models.User{
		Username: "testuser",
		Email:    "Test@Example.com",
	}

	err := service.RegisterUser(context.Background(), user, "secret1")
	if err != nil {
		t.Fatalf("ошибка регистрации: %v", err)
	}

	if repo.lastUser == nil || repo.lastUser.PasswordHash == "" {
		t.Fatal("пароль не захеширован или пользователь не сохранён")
	}
	if repo.lastUser.PasswordHash == "secret1" {
		t.Fatal("пароль сохранён в открытом виде")
	}
	if repo.lastUser.Email != "test@example.com" {
		t.Errorf("email не нормализован: %q", repo.lastUser.Email)
	}
	if repo.lastUser.Role != "user" {
		t.Errorf("роль по умолчанию должна быть user: %q", repo.lastUser.Role)
	}
}

func TestRegisterUser_Validation(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	cases := []struct {
		name     string
		user     *models.User
		password string
	}{
		{"пустой username", &models.User{Username: " ", Email: "a@b.com"}, "secret1"},
		{"email без @", &models.User{Username: "u1", Email: "not-an-email"}, "secret1"},
		{"email с двоеточием", &models.User{Username: "u2", Email: "a:b@example.com"}, "secret1"},
		{"короткий пароль", &models.User{Username: "u3", Email: "a@b.com"}, "12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.RegisterUser(context.Background(), tc.user, tc.password)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("ожидался ErrValidation, получили: %v", err)
			}
		})
	}
}

func TestLoginUser_Success(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	// создаём пользователя вручную
	hashed, _ := utils.HashPassword("secret1")
	repo.users["testuser"] = &models.User{
		ID:           1,
		Username:     "testuser",
		PasswordHash: hashed,
		Role:         "user",
	}

	access, refresh, user, err := service.LoginUser(context.Background(), "testuser", "secret1", "mysecret", 15*time.Minute, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("ошибка логина: %v", err)
	}

	if access == "" || refresh == "" {
		t.Fatal("токены не сгенерированы")
	}
	if user == nil || user.ID != 1 {
		t.Fatal("пользователь не возвращён")
	}
}

func TestLoginUser_Fail(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	_, _, _, err := service.LoginUser(context.Background(), "unknown", "pass", "secret", time.Minute, time.Hour)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидался ErrInvalidCredentials для несуществующего пользователя, получили: %v", err)
	}

	hashed, _ := utils.HashPassword("secret1")
	repo.users["testuser"] = &models.User{ID: 1, Username: "testuser", PasswordHash: hashed, Role: "user"}

	_, _, _, err = service.LoginUser(context.Background(), "testuser", "wrongpass", "secret", time.Minute, time.Hour)
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("ожидался ErrInvalidCredentials при неверном пароле, получили: %v", err)
	}
}

func TestUpdateUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	repo.users["testuser"] = &models.User{ID: 1, Username: "testuser", Email: "old@example.com", Role: "user"}

	badRole := "superadmin"
	if err := service.UpdateUser(context.Background(), 1, &models.UpdateUserRequest{Role: &badRole}); !errors.Is(err, ErrValidation) {
		t.Fatalf("ожидался ErrValidation для недопустимой роли, получили: %v", err)
	}

	email := "New@Example.com"
	password := "newsecret"
	if err := service.UpdateUser(context.Background(), 1, &models.UpdateUserRequest{Email: &email, Password: &password}); err != nil {
		t.Fatalf("ошибка обновления: %v", err)
	}
	u := repo.users["testuser"]
	if u.Email != "new@example.com" {
		t.Errorf("email не обновлён или не нормализован: %q", u.Email)
	}
	if !utils.CheckPasswordHash("newsecret", u.PasswordHash) {
		t.Error("новый пароль не сходится с хешем")
	}

	if err := service.UpdateUser(context.Background(), 99, &models.UpdateUserRequest{Email: &email}); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ожидался ErrUserNotFound, получили: %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	repo := &mockUserRepo{users: make(map[string]*models.User)}
	service := NewAuthService(repo)

	repo.users["testuser"] = &models.User{ID: 1, Username: "testuser"}

	if err := service.DeleteUser(context.Background(), 1); err != nil {
		t.Fatalf("ошибка удаления: %v", err)
	}
	if err := service.DeleteUser(context.Background(), 1); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("повторное удаление должно давать ErrUserNotFound, получили: %v", err)
	}
}
