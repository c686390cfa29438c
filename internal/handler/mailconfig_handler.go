package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskmanager/internal/domain"
	"taskmanager/internal/mailer"
	"taskmanager/internal/service"
)

// MailConfigHandler — обработчик запросов для настроек почты
type MailConfigHandler struct {
	notify *service.NotifyService
}

// NewMailConfigHandler создаёт новый обработчик
func NewMailConfigHandler(notify *service.NotifyService) *MailConfigHandler {
	return &MailConfigHandler{notify: notify}
}

// MailConfigResponse — настройки почты в ответах API
// Пароль наружу не отдаётся никогда
type MailConfigResponse struct {
	ID          string `json:"id"`
	SMTPServer  string `json:"smtp_server"`
	SMTPPort    int    `json:"smtp_port"`
	UseTLS      bool   `json:"use_tls"`
	UseSSL      bool   `json:"use_ssl"`
	Username    string `json:"username"`
	SenderEmail string `json:"sender_email"`
	IsActive    bool   `json:"is_active"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

func newMailConfigResponse(cfg *domain.MailConfig) MailConfigResponse {
	return MailConfigResponse{
		ID:          cfg.ID,
		SMTPServer:  cfg.SMTPServer,
		SMTPPort:    cfg.SMTPPort,
		UseTLS:      cfg.UseTLS,
		UseSSL:      cfg.UseSSL,
		Username:    cfg.Username,
		SenderEmail: cfg.SenderEmail,
		IsActive:    cfg.IsActive,
		CreatedAt:   cfg.CreatedAt.Format(dateTimeFormat),
		UpdatedAt:   cfg.UpdatedAt.Format(dateTimeFormat),
	}
}

// SaveMailConfigRequest — структура запроса на сохранение настроек
type SaveMailConfigRequest struct {
	SMTPServer  string `json:"smtp_server"`  // По умолчанию smtp.gmail.com
	SMTPPort    int    `json:"smtp_port"`    // По умолчанию 587
	UseTLS      *bool  `json:"use_tls"`      // По умолчанию true
	UseSSL      bool   `json:"use_ssl"`      // По умолчанию false
	Username    string `json:"username"`     // Логин
	Password    string `json:"password"`     // Пароль (принимается только на запись)
	SenderEmail string `json:"sender_email"` // По умолчанию совпадает с логином
}

// Get возвращает активные настройки почты
// @Summary Получить настройки email
// @Description Возвращает активные настройки почты без пароля. Если настроек нет, возвращает configured=false.
// @Tags email
// @Produce json
// @Success 200 {object} MailConfigResponse "Настройки почты"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /email/settings [get]
func (h *MailConfigHandler) Get(c *fiber.Ctx) error {
	cfg, err := h.notify.GetConfig()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	// Отсутствие настроек — нормальное состояние, не ошибка
	if cfg == nil {
		return c.JSON(fiber.Map{
			"configured": false,
		})
	}

	return c.JSON(newMailConfigResponse(cfg))
}

// Save сохраняет настройки почты
// @Summary Сохранить настройки email
// @Description Заменяет активные настройки почты новыми. Старые настройки деактивируются.
// @Tags email
// @Accept json
// @Produce json
// @Param request body SaveMailConfigRequest true "Новые настройки"
// @Success 200 {object} map[string]interface{} "Настройки сохранены"
// @Failure 400 {object} ErrorResponse "Неверные параметры запроса"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /email/settings [post]
func (h *MailConfigHandler) Save(c *fiber.Ctx) error {
	var req SaveMailConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Неверный формат запроса",
			Details: err.Error(),
		})
	}

	// STARTTLS включён по умолчанию, если клиент не указал иначе
	useTLS := true
	if req.UseTLS != nil {
		useTLS = *req.UseTLS
	}

	cfg, err := h.notify.SaveConfig(&domain.MailConfig{
		SMTPServer:  req.SMTPServer,
		SMTPPort:    req.SMTPPort,
		UseTLS:      useTLS,
		UseSSL:      req.UseSSL,
		Username:    req.Username,
		Password:    req.Password,
		SenderEmail: req.SenderEmail,
	})
	if err != nil {
		if errors.Is(err, service.ErrInvalidPort) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Недопустимый SMTP-порт",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Настройки email сохранены",
		"settings": newMailConfigResponse(cfg),
	})
}

// Delete удаляет настройки почты
// @Summary Удалить настройки email
// @Description Удаляет активные настройки почты
// @Tags email
// @Produce json
// @Success 200 {object} map[string]interface{} "Настройки удалены"
// @Failure 404 {object} map[string]interface{} "Настройки не найдены"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /email/settings [delete]
func (h *MailConfigHandler) Delete(c *fiber.Ctx) error {
	err := h.notify.DeleteConfig()
	if err != nil {
		if errors.Is(err, service.ErrConfigNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"success": false,
				"error":   "Настройки не найдены",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Настройки email удалены",
	})
}

// TestEmailRequest — структура запроса на тестовую отправку
type TestEmailRequest struct {
	Email string `json:"email"` // Получатель тестового письма
}

// Test отправляет тестовое письмо
// @Summary Тестовая отправка email
// @Description Отправляет тестовое письмо по сохранённым настройкам тем же путём, что и настоящие уведомления
// @Tags email
// @Accept json
// @Produce json
// @Param request body TestEmailRequest true "Получатель"
// @Success 200 {object} map[string]interface{} "Письмо отправлено"
// @Failure 400 {object} ErrorResponse "Не указан получатель или нет настроек"
// @Failure 500 {object} map[string]interface{} "Отправка не удалась"
// @Router /email/test [post]
func (h *MailConfigHandler) Test(c *fiber.Ctx) error {
	var req TestEmailRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Неверный формат запроса",
			Details: err.Error(),
		})
	}

	if req.Email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Не указан email",
		})
	}

	// Без сохранённых настроек тестировать нечего
	cfg, err := h.notify.GetConfig()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}
	if cfg == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Настройки email не найдены",
		})
	}

	result, err := h.notify.SendTest(req.Email)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	if !result.Success {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"error":   result.Message,
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Тестовое письмо отправлено успешно",
	})
}

// Presets возвращает преднастройки почтовых сервисов
// @Summary Пресеты почтовых сервисов
// @Description Возвращает преднастройки популярных почтовых сервисов для автозаполнения формы
// @Tags email
// @Produce json
// @Success 200 {object} map[string]mailer.Preset "Пресеты"
// @Router /email/presets [get]
func (h *MailConfigHandler) Presets(c *fiber.Ctx) error {
	return c.JSON(mailer.Presets())
}
