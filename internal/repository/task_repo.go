package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/domain"
)

// TaskFilter — фильтры для выборки задач
// Пустое значение поля означает "без фильтра"
type TaskFilter struct {
	Status   string
	Priority string
	Category string
}

// TaskRepository — репозиторий для работы с задачами
type TaskRepository struct {
	db *sql.DB // Подключение к базе данных
}

// NewTaskRepository создаёт новый репозиторий
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create создаёт новую задачу
func (r *TaskRepository) Create(task *domain.Task) error {
	// Генерируем ID, если не задан
	if task.ID == "" {
		task.ID = uuid.New().String()
	}

	// Устанавливаем время создания
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}

	query := `
        INSERT INTO tasks (id, title, description, status, priority, category, due_date, assigned_email, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
    `

	_, err := r.db.Exec(query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.DueDate,
		task.AssignedEmail,
		task.CreatedAt,
	)

	return err
}

// GetByID находит задачу по ID
func (r *TaskRepository) GetByID(id string) (*domain.Task, error) {
	query := `
        SELECT id, title, description, status, priority, category, due_date, assigned_email, created_at
        FROM tasks
        WHERE id = $1
    `

	task := &domain.Task{}
	err := r.db.QueryRow(query, id).Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&task.Status,
		&task.Priority,
		&task.Category,
		&task.DueDate,
		&task.AssignedEmail,
		&task.CreatedAt,
	)

	// Запись не найдена — это не ошибка
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return task, nil
}

// List возвращает задачи с учётом фильтров, новые сверху
func (r *TaskRepository) List(filter TaskFilter) ([]*domain.Task, error) {
	// Базовый запрос; условия добавляем по заполненным фильтрам
	query := `
        SELECT id, title, description, status, priority, category, due_date, assigned_email, created_at
        FROM tasks
        WHERE 1=1
    `

	var args []interface{}

	addFilter := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		query += fmt.Sprintf(" AND %s = $%d", column, len(args))
	}

	addFilter("status", filter.Status)
	addFilter("priority", filter.Priority)
	addFilter("category", filter.Category)

	query += ` ORDER BY created_at DESC`

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*domain.Task

	for rows.Next() {
		task := &domain.Task{}
		err := rows.Scan(
			&task.ID,
			&task.Title,
			&task.Description,
			&task.Status,
			&task.Priority,
			&task.Category,
			&task.DueDate,
			&task.AssignedEmail,
			&task.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update сохраняет изменённую задачу
func (r *TaskRepository) Update(task *domain.Task) error {
	query := `
        UPDATE tasks
        SET title = $2, description = $3, status = $4, priority = $5,
            category = $6, due_date = $7, assigned_email = $8
        WHERE id = $1
    `

	_, err := r.db.Exec(query,
		task.ID,
		task.Title,
		task.Description,
		task.Status,
		task.Priority,
		task.Category,
		task.DueDate,
		task.AssignedEmail,
	)

	return err
}

// Delete удаляет задачу
func (r *TaskRepository) Delete(id string) error {
	query := `DELETE FROM tasks WHERE id = $1`
	_, err := r.db.Exec(query, id)
	return err
}

// Stats возвращает количество задач по статусам и приоритетам
func (r *TaskRepository) Stats() (*domain.TaskStats, error) {
	// Одним запросом считаем все счётчики
	query := `
        SELECT
            COUNT(*),
            COUNT(*) FILTER (WHERE status = 'completed'),
            COUNT(*) FILTER (WHERE status = 'pending'),
            COUNT(*) FILTER (WHERE status = 'in_progress'),
            COUNT(*) FILTER (WHERE priority = 'high'),
            COUNT(*) FILTER (WHERE priority = 'medium'),
            COUNT(*) FILTER (WHERE priority = 'low')
        FROM tasks
    `

	stats := &domain.TaskStats{}
	err := r.db.QueryRow(query).Scan(
		&stats.Total,
		&stats.Completed,
		&stats.Pending,
		&stats.InProgress,
		&stats.HighPriority,
		&stats.MediumPriority,
		&stats.LowPriority,
	)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// Categories возвращает список всех непустых категорий
func (r *TaskRepository) Categories() ([]string, error) {
	query := `SELECT DISTINCT category FROM tasks WHERE category <> '' ORDER BY category`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string

	for rows.Next() {
		var category string
		if err := rows.Scan(&category); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return categories, nil
}
