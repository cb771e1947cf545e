package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/taskdeck/backend/api/handler"
)

type Handlers struct {
	Auth    *apiHandler.AuthHandler
	Task    *apiHandler.TaskHandler
	Weather *apiHandler.WeatherHandler
	Health  *apiHandler.HealthHandler
}

func New(handlers Handlers, authMiddleware func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	// Auth routes
	r.POST("/api/v1/auth/login", handlers.Auth.Login)
	r.POST("/api/v1/auth/refresh", handlers.Auth.Refresh)
	r.POST("/api/v1/auth/logout", authMiddleware(handlers.Auth.Logout))
	r.GET("/api/v1/me", authMiddleware(handlers.Auth.Me))

	// Task routes
	r.GET("/api/v1/tasks", authMiddleware(handlers.Task.GetTasks))
	r.POST("/api/v1/tasks", authMiddleware(handlers.Task.CreateTask))
	r.POST("/api/v1/tasks/refresh", authMiddleware(handlers.Task.Refresh))
	r.DELETE("/api/v1/tasks/{id}", authMiddleware(handlers.Task.DeleteTask))
	r.PUT("/api/v1/tasks/{id}/completed", authMiddleware(handlers.Task.SetCompleted))
	r.PUT("/api/v1/tasks/{id}/important", authMiddleware(handlers.Task.SetImportant))
	r.PUT("/api/v1/tasks/{id}/reminder", authMiddleware(handlers.Task.SetReminder))
	r.PUT("/api/v1/tasks/{id}/assign", authMiddleware(handlers.Task.Assign))

	// Weather routes
	r.GET("/api/v1/weather", authMiddleware(handlers.Weather.Current))
	r.GET("/api/v1/weather/forecast", authMiddleware(handlers.Weather.Forecast))

	return r
}
