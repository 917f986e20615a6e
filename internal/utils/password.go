package utils

import "golang.org/x/crypto/bcrypt"

// Стоимость 12 — порядка сотни миллисекунд на хеш, одинаково для паролей
// и для секретов сброса.
const bcryptCost = 12

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
