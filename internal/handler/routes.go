package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	"taskmanager/internal/service"
)

// SetupRoutes настраивает все маршруты приложения
func SetupRoutes(
	app *fiber.App,
	taskHandler *TaskHandler,
	mailConfigHandler *MailConfigHandler,
) {
	// Middleware
	app.Use(logger.New())
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Content-Type,Authorization",
	}))

	// Swagger UI
	app.Get("/swagger/*", swagger.HandlerDefault)

	// API v1
	api := app.Group("/api/v1")

	// Task routes
	tasks := api.Group("/tasks")
	tasks.Get("/", taskHandler.List)
	tasks.Post("/", taskHandler.Create)
	tasks.Put("/:id", taskHandler.Update)
	tasks.Delete("/:id", taskHandler.Delete)
	tasks.Post("/:id/send-email", taskHandler.SendEmail)

	api.Get("/stats", taskHandler.Stats)
	api.Get("/categories", taskHandler.Categories)

	// Email settings routes
	email := api.Group("/email")
	email.Get("/settings", mailConfigHandler.Get)
	email.Post("/settings", mailConfigHandler.Save)
	email.Delete("/settings", mailConfigHandler.Delete)
	email.Post("/test", mailConfigHandler.Test)
	email.Get("/presets", mailConfigHandler.Presets)

	// Health check
	// @Summary Проверка здоровья
	// @Description Возвращает статус сервера
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]string "Статус сервера"
	// @Router /health [get]
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "ok",
		})
	})

	// Stats
	// @Summary Статистика процесса
	// @Description Возвращает счётчики работы сервиса
	// @Tags system
	// @Produce json
	// @Success 200 {object} map[string]interface{} "Статистика"
	// @Router /stats [get]
	app.Get("/stats", func(c *fiber.Ctx) error {
		stats := service.GlobalStats.GetStats()
		return c.JSON(fiber.Map{
			"tasks_created": stats.TasksCreated,
			"emails_sent":   stats.EmailsSent,
			"emails_failed": stats.EmailsFailed,
			"test_emails":   stats.TestEmails,
			"last_dispatch": stats.LastDispatch.Format("2006-01-02 15:04:05"),
		})
	})
}
