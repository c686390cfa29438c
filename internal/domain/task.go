package domain

import (
	"time"
)

// Статусы задачи
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// Приоритеты задачи
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Task — задача в трекере
type Task struct {
	ID            string     `json:"id"`             // Уникальный идентификатор (UUID)
	Title         string     `json:"title"`          // Заголовок задачи
	Description   string     `json:"description"`    // Описание (необязательно)
	Status        string     `json:"status"`         // pending, in_progress, completed
	Priority      string     `json:"priority"`       // low, medium, high
	Category      string     `json:"category"`       // Категория (необязательно)
	DueDate       *time.Time `json:"due_date"`       // Срок выполнения (только дата)
	AssignedEmail string     `json:"assigned_email"` // Email назначенного исполнителя
	CreatedAt     time.Time  `json:"created_at"`     // Дата создания
}

// Snapshot делает неизменяемую копию полей задачи для отправки уведомления.
// Письмо составляется по снимку, а не по живой записи из БД
func (t *Task) Snapshot() TaskSnapshot {
	return TaskSnapshot{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		Category:    t.Category,
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
	}
}

// TaskSnapshot — снимок задачи на момент подготовки уведомления
type TaskSnapshot struct {
	ID          string
	Title       string
	Description string
	Status      string
	Priority    string
	Category    string
	DueDate     *time.Time
	CreatedAt   time.Time
}

// TaskStats — статистика по задачам
type TaskStats struct {
	Total          int `json:"total"`           // Всего задач
	Completed      int `json:"completed"`       // Выполнено
	Pending        int `json:"pending"`         // Ожидает
	InProgress     int `json:"in_progress"`     // В работе
	HighPriority   int `json:"high_priority"`   // С высоким приоритетом
	MediumPriority int `json:"medium_priority"` // Со средним приоритетом
	LowPriority    int `json:"low_priority"`    // С низким приоритетом
}
