package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Кодек транспортного payload ссылки сброса: email, сырой секрет и id записи
// токена склеиваются через ":" и кодируются base64url. Секрет сам по себе
// base64url и двоеточий не содержит; email с ":" невалиден.
const resetDelimiter = ":"

var ErrMalformedPayload = errors.New("некорректный payload сброса")

func EncodeResetPayload(email, secret string, tokenID int64) string {
	raw := email + resetDelimiter + secret + resetDelimiter + strconv.FormatInt(tokenID, 10)
	return base64.URLEncoding.EncodeToString([]byte(raw))
}

func DecodeResetPayload(payload string) (email, secret string, tokenID int64, err error) {
	raw, err := base64.URLEncoding.DecodeString(payload)
	if err != nil {
		return "", "", 0, ErrMalformedPayload
	}

	parts := strings.Split(string(raw), resetDelimiter)
	if len(parts) != 3 {
		return "", "", 0, ErrMalformedPayload
	}

	tokenID, err = strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return "", "", 0, ErrMalformedPayload
	}

	if parts[0] == "" || parts[1] == "" {
		return "", "", 0, ErrMalformedPayload
	}

	return parts[0], parts[1], tokenID, nil
}

// BuildResetLink собирает ссылку вида <frontend>/reset/<payload>.
func BuildResetLink(frontendURL, payload string) string {
	return fmt.Sprintf("%s/reset/%s", strings.TrimSuffix(frontendURL, "/"), payload)
}
