package services

import (
	"context"
	"errors"
	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/utils"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Мок-хранилище токенов сброса (заглушка)
type mockResetTokenRepo struct {
	tokens map[int64]*models.ResetToken
	nextID int64

	// последний применённый хеш пароля по userID
	passwords map[int]string
}

func newMockResetTokenRepo() *mockResetTokenRepo {
	return &mockResetTokenRepo{
		tokens:    make(map[int64]*models.ResetToken),
		passwords: make(map[int]string),
	}
}

func (m *mockResetTokenRepo) Create(_ context.Context, email, tokenHash string, expiresAt time.Time) (int64, error) {
	m.nextID++
	m.tokens[m.nextID] = &models.ResetToken{
		ID:        m.nextID,
		Email:     email,
		TokenHash: tokenHash,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	return m.nextID, nil
}

func (m *mockResetTokenRepo) GetByID(_ context.Context, id int64) (*models.ResetToken, error) {
	token, ok := m.tokens[id]
	if !ok {
		return nil, errors.New("not found")
	}
	copied := *token
	return &copied, nil
}

func (m *mockResetTokenRepo) ConsumeAndSetPassword(_ context.Context, tokenID int64, userID int, passwordHash string) error {
	token, ok := m.tokens[tokenID]
	if !ok {
		return errors.New("not found")
	}
	// те же условия, что и в SQL: непогашен и не истёк
	if token.ConsumedAt != nil || time.Now().After(token.ExpiresAt) {
		return repository.ErrTokenSpent
	}
	now := time.Now()
	token.ConsumedAt = &now
	m.passwords[userID] = passwordHash
	return nil
}

type mockUserReader struct {
	users map[string]*models.User
}

func (m *mockUserReader) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := m.users[email]
	if !ok {
		return nil, errors.New("not found")
	}
	return u, nil
}

type mockEmailSender struct {
	sentTo    []string
	sentLinks []string
	fail      bool
}

func (m *mockEmailSender) SendPasswordReset(to, resetLink string) error {
	if m.fail {
		return errors.New("smtp недоступен")
	}
	m.sentTo = append(m.sentTo, to)
	m.sentLinks = append(m.sentLinks, resetLink)
	return nil
}

const testFrontend = "http://localhost:5173"

func newResetFixture() (*PasswordResetService, *mockResetTokenRepo, *mockUserReader, *mockEmailSender) {
	tokens := newMockResetTokenRepo()
	users := &mockUserReader{users: map[string]*models.User{
		"user@example.com": {ID: 7, Username: "user", Email: "user@example.com", Role: "user"},
	}}
	mail := &mockEmailSender{}
	service := NewPasswordResetService(tokens, users, mail, testFrontend)
	return service, tokens, users, mail
}

// выдёргивает email/секрет/id из единственного отправленного письма
func decodeSentLink(t *testing.T, mail *mockEmailSender) (string, string, int64) {
	t.Helper()
	if len(mail.sentLinks) != 1 {
		t.Fatalf("ожидалось ровно одно письмо, отправлено: %d", len(mail.sentLinks))
	}
	payload := strings.TrimPrefix(mail.sentLinks[0], testFrontend+"/reset/")
	email, secret, tokenID, err := utils.DecodeResetPayload(payload)
	if err != nil {
		t.Fatalf("payload из письма не декодируется: %v", err)
	}
	return email, secret, tokenID
}

func TestRequestReset_Success(t *testing.T) {
	service, tokens, _, mail := newResetFixture()

	before := time.Now()
	if err := service.RequestReset(context.Background(), "User@Example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}

	email, secret, tokenID := decodeSentLink(t, mail)
	if email != "user@example.com" {
		t.Errorf("email в payload не нормализован: %q", email)
	}
	if mail.sentTo[0] != "user@example.com" {
		t.Errorf("письмо ушло не на тот адрес: %q", mail.sentTo[0])
	}

	if len(tokens.tokens) != 1 {
		t.Fatalf("ожидался ровно один токен, создано: %d", len(tokens.tokens))
	}
	token, ok := tokens.tokens[tokenID]
	if !ok {
		t.Fatal("токен из письма не найден в хранилище")
	}
	if token.Email != email {
		t.Errorf("email токена и payload разошлись: %q vs %q", token.Email, email)
	}
	if token.TokenHash == secret {
		t.Error("в хранилище лежит сырой секрет, а не хеш")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(token.TokenHash), []byte(secret)); err != nil {
		t.Error("хеш в хранилище не сходится с секретом из письма")
	}

	// хеширование секрета занимает заметное время, допускаем пару секунд
	wantExpiry := before.Add(time.Hour)
	if token.ExpiresAt.Before(wantExpiry) || token.ExpiresAt.After(wantExpiry.Add(3*time.Second)) {
		t.Errorf("срок жизни токена не ровно час: %v", token.ExpiresAt.Sub(before))
	}
}

func TestRequestReset_UnknownEmail(t *testing.T) {
	service, tokens, _, mail := newResetFixture()

	err := service.RequestReset(context.Background(), "nobody@example.com")
	if !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("ожидался ErrUserNotFound, получили: %v", err)
	}
	if len(tokens.tokens) != 0 {
		t.Error("для неизвестного email не должно создаваться токенов")
	}
	if len(mail.sentTo) != 0 {
		t.Error("для неизвестного email не должно уходить писем")
	}
}

func TestRequestReset_MailFailure(t *testing.T) {
	service, _, _, mail := newResetFixture()
	mail.fail = true

	if err := service.RequestReset(context.Background(), "user@example.com"); err == nil {
		t.Fatal("ожидалась ошибка при недоступном SMTP")
	}
}

func TestCompleteReset_SuccessAndReplay(t *testing.T) {
	service, tokens, _, mail := newResetFixture()

	if err := service.RequestReset(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	email, secret, tokenID := decodeSentLink(t, mail)

	if err := service.CompleteReset(context.Background(), email, secret, tokenID, "newpassword"); err != nil {
		t.Fatalf("ошибка завершения сброса: %v", err)
	}

	hash, ok := tokens.passwords[7]
	if !ok {
		t.Fatal("пароль пользователя не обновлён")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword")); err != nil {
		t.Error("новый пароль не сходится с сохранённым хешем")
	}
	if tokens.tokens[tokenID].ConsumedAt == nil {
		t.Fatal("токен не помечен погашенным после успешного сброса")
	}

	// повторное применение того же секрета обязано отклоняться
	err := service.CompleteReset(context.Background(), email, secret, tokenID, "anotherpass")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("повтор должен давать ErrTokenInvalid, получили: %v", err)
	}
}

func TestCompleteReset_WrongSecret(t *testing.T) {
	service, tokens, _, mail := newResetFixture()

	if err := service.RequestReset(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	email, _, tokenID := decodeSentLink(t, mail)

	err := service.CompleteReset(context.Background(), email, "wrong-secret", tokenID, "newpassword")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("ожидался ErrTokenInvalid, получили: %v", err)
	}
	if len(tokens.passwords) != 0 {
		t.Error("пароль не должен меняться при неверном секрете")
	}
	if tokens.tokens[tokenID].ConsumedAt != nil {
		t.Error("токен не должен гаситься при неверном секрете")
	}
}

func TestCompleteReset_Expired(t *testing.T) {
	service, tokens, _, mail := newResetFixture()

	if err := service.RequestReset(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	email, secret, tokenID := decodeSentLink(t, mail)
	tokens.tokens[tokenID].ExpiresAt = time.Now().Add(-time.Minute)

	err := service.CompleteReset(context.Background(), email, secret, tokenID, "newpassword")
	if !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("ожидался ErrTokenExpired, получили: %v", err)
	}
	if len(tokens.passwords) != 0 {
		t.Error("пароль не должен меняться по истёкшему токену")
	}
}

func TestCompleteReset_EmailMismatch(t *testing.T) {
	service, _, users, mail := newResetFixture()
	users.users["other@example.com"] = &models.User{ID: 8, Email: "other@example.com", Role: "user"}

	if err := service.RequestReset(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("ошибка запроса сброса: %v", err)
	}
	_, secret, tokenID := decodeSentLink(t, mail)

	// валидная пара секрет/id подклеена к чужому email
	err := service.CompleteReset(context.Background(), "other@example.com", secret, tokenID, "newpassword")
	if !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("ожидался ErrTokenInvalid, получили: %v", err)
	}
}

func TestCompleteReset_TokenNotFound(t *testing.T) {
	service, _, _, _ := newResetFixture()

	err := service.CompleteReset(context.Background(), "user@example.com", "secret", 999, "newpassword")
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("ожидался ErrTokenNotFound, получили: %v", err)
	}
}

func TestCompleteReset_ShortPassword(t *testing.T) {
	service, _, _, _ := newResetFixture()

	err := service.CompleteReset(context.Background(), "user@example.com", "secret", 1, "123")
	if !errors.Is(err, ErrPasswordTooShort) {
		t.Fatalf("ожидался ErrPasswordTooShort, получили: %v", err)
	}
}
