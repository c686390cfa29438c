package service

import (
	"errors"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
)

// Ошибки сервиса
var (
	ErrTaskNotFound = errors.New("задача не найдена")
	ErrEmptyTitle   = errors.New("название задачи не заполнено")
)

// Формат срока выполнения в запросах
const dueDateFormat = "2006-01-02"

// TaskStore — хранилище задач
type TaskStore interface {
	Create(task *domain.Task) error
	GetByID(id string) (*domain.Task, error)
	List(filter repository.TaskFilter) ([]*domain.Task, error)
	Update(task *domain.Task) error
	Delete(id string) error
	Stats() (*domain.TaskStats, error)
	Categories() ([]string, error)
}

// TaskService — сервис для работы с задачами
type TaskService struct {
	store TaskStore
}

// NewTaskService создаёт новый сервис
func NewTaskService(store TaskStore) *TaskService {
	return &TaskService{store: store}
}

// CreateTaskInput — данные для создания задачи
type CreateTaskInput struct {
	Title         string
	Description   string
	Priority      string
	Category      string
	DueDate       string // Формат 2006-01-02
	AssignedEmail string
}

// Create создаёт новую задачу
func (s *TaskService) Create(in CreateTaskInput) (*domain.Task, error) {
	if in.Title == "" {
		return nil, ErrEmptyTitle
	}

	// Значения по умолчанию как в веб-форме
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	category := in.Category
	if category == "" {
		category = "general"
	}

	task := &domain.Task{
		Title:         in.Title,
		Description:   in.Description,
		Status:        domain.StatusPending,
		Priority:      priority,
		Category:      category,
		DueDate:       parseDueDate(in.DueDate),
		AssignedEmail: in.AssignedEmail,
		CreatedAt:     time.Now(),
	}

	if err := s.store.Create(task); err != nil {
		return nil, err
	}

	GlobalStats.IncrementTasks()

	return task, nil
}

// GetByID возвращает задачу по ID
func (s *TaskService) GetByID(id string) (*domain.Task, error) {
	task, err := s.store.GetByID(id)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}

	return task, nil
}

// List возвращает задачи с учётом фильтров
// Значение "all" (или пустое) означает отсутствие фильтра
func (s *TaskService) List(status, priority, category string) ([]*domain.Task, error) {
	filter := repository.TaskFilter{
		Status:   normalizeFilter(status),
		Priority: normalizeFilter(priority),
		Category: normalizeFilter(category),
	}

	return s.store.List(filter)
}

// UpdateTaskInput — изменяемые поля задачи
// nil означает "не трогать поле"
type UpdateTaskInput struct {
	Title         *string
	Description   *string
	Status        *string
	Priority      *string
	Category      *string
	DueDate       *string
	AssignedEmail *string
}

// Update частично обновляет задачу
func (s *TaskService) Update(id string, in UpdateTaskInput) (*domain.Task, error) {
	task, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if in.Title != nil {
		task.Title = *in.Title
	}
	if in.Description != nil {
		task.Description = *in.Description
	}
	if in.Status != nil {
		task.Status = *in.Status
	}
	if in.Priority != nil {
		task.Priority = *in.Priority
	}
	if in.Category != nil {
		task.Category = *in.Category
	}
	if in.AssignedEmail != nil {
		task.AssignedEmail = *in.AssignedEmail
	}
	if in.DueDate != nil {
		switch {
		case *in.DueDate == "":
			// Пустая строка очищает срок
			task.DueDate = nil
		default:
			// Невалидная дата оставляет старое значение
			if due := parseDueDate(*in.DueDate); due != nil {
				task.DueDate = due
			}
		}
	}

	if err := s.store.Update(task); err != nil {
		return nil, err
	}

	return task, nil
}

// Delete удаляет задачу
func (s *TaskService) Delete(id string) error {
	// Проверяем существование
	_, err := s.GetByID(id)
	if err != nil {
		return err
	}

	return s.store.Delete(id)
}

// Stats возвращает статистику по задачам
func (s *TaskService) Stats() (*domain.TaskStats, error) {
	return s.store.Stats()
}

// Categories возвращает список категорий
func (s *TaskService) Categories() ([]string, error) {
	return s.store.Categories()
}

// parseDueDate разбирает срок выполнения
// Невалидная дата считается отсутствующей, ошибкой это не является
func parseDueDate(value string) *time.Time {
	if value == "" {
		return nil
	}

	due, err := time.Parse(dueDateFormat, value)
	if err != nil {
		return nil
	}

	return &due
}

// normalizeFilter превращает "all" в отсутствие фильтра
func normalizeFilter(value string) string {
	if value == "all" {
		return ""
	}
	return value
}
