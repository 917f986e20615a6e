package routes

import (
	"projecthub/internal/handlers"
	"projecthub/internal/middleware"

	"github.com/gorilla/mux"
)

func InitRoutes(
	router *mux.Router,
	authHandler *handlers.AuthHandler,
	resetHandler *handlers.PasswordResetHandler,
	projectHandler *handlers.ProjectHandler,
	userHandler *handlers.UserHandler,
	metadataHandler *handlers.MetadataHandler,
) {
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging)
	router.Use(middleware.Recoverer)

	api := router.PathPrefix("/api").Subrouter()

	// --- Публичные маршруты ---
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/refresh", authHandler.Refresh).Methods("POST")

	api.HandleFunc("/reset/request", resetHandler.RequestReset).Methods("POST")
	api.HandleFunc("/reset/complete", resetHandler.CompleteReset).Methods("POST")

	api.HandleFunc("/metadata", metadataHandler.Get).Methods("GET")

	// --- Защищённые JWT ---
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.JWTAuth)

	protected.HandleFunc("/logout", authHandler.Logout).Methods("POST")

	projects := protected.PathPrefix("/projects").Subrouter()
	projects.HandleFunc("", projectHandler.List).Methods("GET")
	projects.HandleFunc("", projectHandler.Create).Methods("POST")
	projects.HandleFunc("/{id}", projectHandler.Get).Methods("GET")
	projects.HandleFunc("/{id}", projectHandler.Update).Methods("PUT")
	projects.HandleFunc("/{id}", projectHandler.Delete).Methods("DELETE")

	admin := protected.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.OnlyRole("admin"))
	admin.HandleFunc("/users", userHandler.GetUsers).Methods("GET")
	admin.HandleFunc("/users", userHandler.CreateUser).Methods("POST")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.GetUserByID).Methods("GET")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.UpdateUser).Methods("PUT")
	admin.HandleFunc("/users/{id:[0-9]+}", userHandler.DeleteUser).Methods("DELETE")
}
