package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"taskmanager/internal/domain"
	"taskmanager/internal/service"
)

// Форматы дат в API (как в исходной веб-форме)
const (
	dateTimeFormat = "2006-01-02 15:04"
	dateFormat     = "2006-01-02"
)

// TaskHandler — обработчик запросов для задач
type TaskHandler struct {
	tasks  *service.TaskService
	notify *service.NotifyService
}

// NewTaskHandler создаёт новый обработчик
func NewTaskHandler(tasks *service.TaskService, notify *service.NotifyService) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		notify: notify,
	}
}

// TaskResponse — структура ответа с данными задачи
type TaskResponse struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	Priority      string  `json:"priority"`
	Category      string  `json:"category"`
	DueDate       *string `json:"due_date"`
	AssignedEmail string  `json:"assigned_email"`
	CreatedAt     string  `json:"created_at"`
}

func newTaskResponse(task *domain.Task) TaskResponse {
	resp := TaskResponse{
		ID:            task.ID,
		Title:         task.Title,
		Description:   task.Description,
		Status:        task.Status,
		Priority:      task.Priority,
		Category:      task.Category,
		AssignedEmail: task.AssignedEmail,
		CreatedAt:     task.CreatedAt.Format(dateTimeFormat),
	}
	if task.DueDate != nil {
		due := task.DueDate.Format(dateFormat)
		resp.DueDate = &due
	}
	return resp
}

// CreateTaskRequest — структура запроса на создание задачи
type CreateTaskRequest struct {
	Title         string `json:"title"`          // Заголовок (обязателен)
	Description   string `json:"description"`    // Описание
	Priority      string `json:"priority"`       // low, medium, high
	Category      string `json:"category"`       // Категория
	DueDate       string `json:"due_date"`       // Срок в формате 2006-01-02
	AssignedEmail string `json:"assigned_email"` // Email исполнителя
	SendEmail     bool   `json:"send_email"`     // Отправить ли уведомление
}

// CreateTaskEmailResponse — ответ на создание с результатом отправки письма
type CreateTaskEmailResponse struct {
	Task         TaskResponse `json:"task"`
	EmailSent    bool         `json:"email_sent"`
	EmailMessage string       `json:"email_message"`
}

// List возвращает список задач
// @Summary Получить список задач
// @Description Возвращает все задачи с фильтрацией по статусу, приоритету и категории. Значение "all" отключает фильтр.
// @Tags tasks
// @Produce json
// @Param status query string false "Фильтр по статусу" Enums(all, pending, in_progress, completed)
// @Param priority query string false "Фильтр по приоритету" Enums(all, low, medium, high)
// @Param category query string false "Фильтр по категории"
// @Success 200 {array} TaskResponse "Список задач"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /tasks [get]
func (h *TaskHandler) List(c *fiber.Ctx) error {
	tasks, err := h.tasks.List(
		c.Query("status"),
		c.Query("priority"),
		c.Query("category"),
	)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	response := make([]TaskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}

	return c.JSON(response)
}

// Create создаёт новую задачу
// @Summary Создать задачу
// @Description Создаёт новую задачу. Если указаны send_email и assigned_email, отправляет уведомление; результат отправки не влияет на создание задачи.
// @Tags tasks
// @Accept json
// @Produce json
// @Param request body CreateTaskRequest true "Параметры задачи"
// @Success 201 {object} TaskResponse "Задача создана"
// @Failure 400 {object} ErrorResponse "Неверные параметры запроса"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /tasks [post]
func (h *TaskHandler) Create(c *fiber.Ctx) error {
	var req CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Неверный формат запроса",
			Details: err.Error(),
		})
	}

	task, err := h.tasks.Create(service.CreateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Priority:      req.Priority,
		Category:      req.Category,
		DueDate:       req.DueDate,
		AssignedEmail: req.AssignedEmail,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmptyTitle) {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
				Error: "Название задачи не заполнено",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	// Отправляем уведомление, если клиент попросил и указал получателя.
	// Задача уже создана — исход отправки лишь прикладывается к ответу
	if req.SendEmail && req.AssignedEmail != "" {
		result := h.notify.SendOnCreate(task, req.AssignedEmail)

		return c.Status(fiber.StatusCreated).JSON(CreateTaskEmailResponse{
			Task:         newTaskResponse(task),
			EmailSent:    result.Success,
			EmailMessage: result.Message,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(newTaskResponse(task))
}

// UpdateTaskRequest — структура запроса на обновление задачи
// Отсутствующие поля не изменяются
type UpdateTaskRequest struct {
	Title         *string `json:"title"`
	Description   *string `json:"description"`
	Status        *string `json:"status"`
	Priority      *string `json:"priority"`
	Category      *string `json:"category"`
	DueDate       *string `json:"due_date"`
	AssignedEmail *string `json:"assigned_email"`
}

// Update обновляет задачу
// @Summary Обновить задачу
// @Description Частично обновляет поля задачи. Пустой due_date очищает срок выполнения.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "ID задачи"
// @Param request body UpdateTaskRequest true "Изменяемые поля"
// @Success 200 {object} TaskResponse "Обновлённая задача"
// @Failure 400 {object} ErrorResponse "Неверные параметры запроса"
// @Failure 404 {object} ErrorResponse "Задача не найдена"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /tasks/{id} [put]
func (h *TaskHandler) Update(c *fiber.Ctx) error {
	var req UpdateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "Неверный формат запроса",
			Details: err.Error(),
		})
	}

	task, err := h.tasks.Update(c.Params("id"), service.UpdateTaskInput{
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		Category:      req.Category,
		DueDate:       req.DueDate,
		AssignedEmail: req.AssignedEmail,
	})
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Задача не найдена",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	return c.JSON(newTaskResponse(task))
}

// Delete удаляет задачу
// @Summary Удалить задачу
// @Description Удаляет задачу по ID
// @Tags tasks
// @Produce json
// @Param id path string true "ID задачи"
// @Success 200 {object} map[string]string "Задача удалена"
// @Failure 404 {object} ErrorResponse "Задача не найдена"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	err := h.tasks.Delete(c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Задача не найдена",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Задача удалена",
	})
}

// SendEmailRequest — структура запроса на отправку задачи по email
type SendEmailRequest struct {
	Email string `json:"email"` // Получатель; по умолчанию — назначенный в задаче
}

// SendEmail отправляет задачу по email
// @Summary Отправить задачу по email
// @Description Отправляет уведомление о задаче. Получатель — из тела запроса, иначе назначенный в задаче email.
// @Tags tasks
// @Accept json
// @Produce json
// @Param id path string true "ID задачи"
// @Param request body SendEmailRequest false "Получатель (необязательно)"
// @Success 200 {object} map[string]interface{} "Письмо отправлено"
// @Failure 400 {object} ErrorResponse "Не указан получатель"
// @Failure 404 {object} ErrorResponse "Задача не найдена"
// @Failure 500 {object} map[string]interface{} "Отправка не удалась"
// @Router /tasks/{id}/send-email [post]
func (h *TaskHandler) SendEmail(c *fiber.Ctx) error {
	task, err := h.tasks.GetByID(c.Params("id"))
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
				Error: "Задача не найдена",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	var req SendEmailRequest
	if err := c.BodyParser(&req); err != nil {
		// Пустое тело допустимо — получателем станет назначенный email
		req = SendEmailRequest{}
	}

	recipient := req.Email
	if recipient == "" {
		recipient = task.AssignedEmail
	}
	if recipient == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "Не указан email получателя",
		})
	}

	result, err := h.notify.SendForExisting(task, recipient)
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
		"message": result.Message,
		"task_id": task.ID,
		"email":   recipient,
	})
}

// Stats возвращает статистику по задачам
// @Summary Статистика по задачам
// @Description Возвращает количество задач по статусам и приоритетам
// @Tags tasks
// @Produce json
// @Success 200 {object} domain.TaskStats "Статистика"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /stats [get]
func (h *TaskHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.tasks.Stats()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	return c.JSON(stats)
}

// Categories возвращает список категорий
// @Summary Список категорий
// @Description Возвращает все непустые категории задач
// @Tags tasks
// @Produce json
// @Success 200 {array} string "Категории"
// @Failure 500 {object} ErrorResponse "Внутренняя ошибка сервера"
// @Router /categories [get]
func (h *TaskHandler) Categories(c *fiber.Ctx) error {
	categories, err := h.tasks.Categories()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error: "Внутренняя ошибка сервера",
		})
	}

	// Пустой список возвращаем как [], а не null
	if categories == nil {
		categories = []string{}
	}

	return c.JSON(categories)
}
