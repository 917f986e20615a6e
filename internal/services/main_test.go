package services

import (
	"os"
	"projecthub/internal/logger"
	"testing"

	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	// сервисы пишут в общий логгер, в тестах глушим
	logger.Log = zap.NewNop()
	os.Exit(m.Run())
}
