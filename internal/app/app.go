package app

import (
	"context"
	"projecthub/internal/config"
	"projecthub/internal/db"
	"projecthub/internal/handlers"
	"projecthub/internal/logger"
	"projecthub/internal/models"
	"projecthub/internal/repository"
	"projecthub/internal/routes"
	"projecthub/internal/services"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

func InitApp(cfg *config.Config) (*mux.Router, error) {
	if err := db.RunMigrations(cfg); err != nil {
		return nil, err
	}

	conn, err := db.NewPostgresConnection(cfg)
	if err != nil {
		return nil, err
	}

	// Репозитории
	userRepo := repository.NewUserRepository(conn)
	resetTokenRepo := repository.NewResetTokenRepository(conn)
	projectRepo := repository.NewProjectRepository(conn)

	// Сервисы
	emailService := services.NewEmailService(cfg)
	authService := services.NewAuthService(userRepo)
	resetService := services.NewPasswordResetService(resetTokenRepo, userRepo, emailService, cfg.FrontendURL)
	projectService := services.NewProjectService(projectRepo)

	// Хендлеры
	authHandler := handlers.NewAuthHandler(authService)
	resetHandler := handlers.NewPasswordResetHandler(resetService)
	projectHandler := handlers.NewProjectHandler(projectService)
	userHandler := handlers.NewUserHandler(authService)
	metadataHandler := handlers.NewMetadataHandler()

	if cfg.SeedOnStart {
		seed(context.Background(), authService, userRepo, projectRepo)
	}

	// Маршруты
	router := mux.NewRouter()
	routes.InitRoutes(router, authHandler, resetHandler, projectHandler, userHandler, metadataHandler)

	return router, nil
}

// seed наполняет пустую базу стартовым администратором, демо-пользователем
// и парой примерных проектов. Пароли сидов сразу хешируются.
func seed(ctx context.Context, authService *services.AuthService, userRepo *repository.UserRepository, projectRepo *repository.ProjectRepository) {
	count, err := userRepo.CountUsers(ctx)
	if err != nil {
		logger.Log.Warn("Сидинг: не удалось посчитать пользователей", zap.Error(err))
		return
	}

	adminID := ""
	if count == 0 {
		admin := &models.User{Username: "admin", Email: "admin@projecthub.local", Role: "admin"}
		if err := authService.RegisterUser(ctx, admin, "admin123"); err != nil {
			logger.Log.Error("Сидинг: не удалось создать администратора", zap.Error(err))
			return
		}
		logger.Log.Info("Сидинг: создан администратор", zap.Int("user_id", admin.ID))

		demo := &models.User{Username: "demo", Email: "demo@projecthub.local", Role: "user"}
		if err := authService.RegisterUser(ctx, demo, "demo123"); err != nil {
			logger.Log.Warn("Сидинг: не удалось создать демо-пользователя", zap.Error(err))
		}

		adminID = services.CallerKey(admin.ID)
	}

	projects, err := projectRepo.CountProjects(ctx)
	if err != nil || projects > 0 || adminID == "" {
		return
	}

	samples := sampleProjects(adminID)
	for _, p := range samples {
		if err := projectRepo.Create(ctx, p); err != nil {
			logger.Log.Warn("Сидинг: не удалось создать проект", zap.String("company", p.CompanyName), zap.Error(err))
		}
	}
	logger.Log.Info("Сидинг: примерные проекты добавлены", zap.Int("count", len(samples)))
}
