package main

// @title Task Manager API
// @version 1.0
// @description Трекер задач с отправкой уведомлений по email
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@taskmanager.dev

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @schemes http https

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"

	"taskmanager/internal/config"
	"taskmanager/internal/handler"
	"taskmanager/internal/mailer"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

func main() {
	// Загружаем конфигурацию
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Ошибка загрузки конфигурации:", err)
	}

	fmt.Println("=== Task Manager ===")

	// Подключаемся к базе данных
	fmt.Println("Подключение к PostgreSQL...")
	db, err := repository.NewPostgresDB(cfg.Database)
	if err != nil {
		log.Fatal("Ошибка подключения к БД:", err)
	}
	defer db.Close()

	// Создаём таблицы, если их ещё нет
	if err := db.Migrate(); err != nil {
		log.Fatal("Ошибка миграции:", err)
	}
	fmt.Println("Подключение успешно!")

	// Создаём репозитории
	taskRepo := repository.NewTaskRepository(db.DB)
	mailConfigRepo := repository.NewMailConfigRepository(db.DB)

	// Создаём сервисы
	taskService := service.NewTaskService(taskRepo)
	dispatcher := mailer.NewDispatcher(cfg.Mail.SMTPTimeout)
	notifyService := service.NewNotifyService(mailConfigRepo, dispatcher, cfg.Mail.OwnerKey)

	// Создаём обработчики
	taskHandler := handler.NewTaskHandler(taskService, notifyService)
	mailConfigHandler := handler.NewMailConfigHandler(notifyService)

	// Создаём Fiber-приложение
	app := fiber.New(fiber.Config{
		AppName: "Task Manager API",
	})

	// Настраиваем маршруты
	handler.SetupRoutes(app, taskHandler, mailConfigHandler)

	// Запускаем HTTP-сервер в отдельной горутине
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
		if err := app.Listen(addr); err != nil {
			log.Printf("HTTP-сервер остановлен: %v", err)
		}
	}()

	fmt.Printf("\nHTTP API: http://localhost:%d\n", cfg.Server.HTTPPort)
	fmt.Println("\nНажмите Ctrl+C для остановки")

	// Ожидаем сигнал завершения
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\nОстановка сервера...")
	app.Shutdown()
}
