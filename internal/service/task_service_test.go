package service_test

import (
	"errors"
	"testing"

	"taskmanager/internal/domain"
	"taskmanager/internal/repository"
	"taskmanager/internal/service"
)

// memTaskStore — хранилище задач в памяти
type memTaskStore struct {
	tasks      map[string]*domain.Task
	order      []string
	lastFilter repository.TaskFilter
}

func newMemTaskStore() *memTaskStore {
	return &memTaskStore{tasks: make(map[string]*domain.Task)}
}

func (s *memTaskStore) Create(task *domain.Task) error {
	if task.ID == "" {
		task.ID = "t-" + string(rune('a'+len(s.order)))
	}
	copied := *task
	s.tasks[task.ID] = &copied
	s.order = append(s.order, task.ID)
	return nil
}

func (s *memTaskStore) GetByID(id string) (*domain.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return nil, nil
	}
	copied := *task
	return &copied, nil
}

func (s *memTaskStore) List(filter repository.TaskFilter) ([]*domain.Task, error) {
	s.lastFilter = filter
	var result []*domain.Task
	for _, id := range s.order {
		task := s.tasks[id]
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Category != "" && task.Category != filter.Category {
			continue
		}
		copied := *task
		result = append(result, &copied)
	}
	return result, nil
}

func (s *memTaskStore) Update(task *domain.Task) error {
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *memTaskStore) Delete(id string) error {
	delete(s.tasks, id)
	return nil
}

func (s *memTaskStore) Stats() (*domain.TaskStats, error) {
	stats := &domain.TaskStats{}
	for _, task := range s.tasks {
		stats.Total++
		switch task.Status {
		case domain.StatusCompleted:
			stats.Completed++
		case domain.StatusPending:
			stats.Pending++
		case domain.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats, nil
}

func (s *memTaskStore) Categories() ([]string, error) {
	seen := make(map[string]bool)
	var categories []string
	for _, task := range s.tasks {
		if task.Category != "" && !seen[task.Category] {
			seen[task.Category] = true
			categories = append(categories, task.Category)
		}
	}
	return categories, nil
}

func TestCreateTaskDefaults(t *testing.T) {
	svc := service.NewTaskService(newMemTaskStore())

	task, err := svc.Create(service.CreateTaskInput{Title: "Новая задача"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if task.Status != domain.StatusPending {
		t.Errorf("статус по умолчанию pending, получено %q", task.Status)
	}
	if task.Priority != domain.PriorityMedium {
		t.Errorf("приоритет по умолчанию medium, получено %q", task.Priority)
	}
	if task.Category != "general" {
		t.Errorf("категория по умолчанию general, получено %q", task.Category)
	}
	if task.CreatedAt.IsZero() {
		t.Error("дата создания должна быть заполнена")
	}
}

func TestCreateTaskRequiresTitle(t *testing.T) {
	svc := service.NewTaskService(newMemTaskStore())

	_, err := svc.Create(service.CreateTaskInput{})
	if !errors.Is(err, service.ErrEmptyTitle) {
		t.Fatalf("ожидалась ошибка пустого названия, получено %v", err)
	}
}

func TestCreateTaskLenientDueDate(t *testing.T) {
	tests := []struct {
		name    string
		dueDate string
		wantNil bool
	}{
		{name: "валидная дата", dueDate: "2025-06-15", wantNil: false},
		{name: "пустая строка", dueDate: "", wantNil: true},
		{name: "мусор", dueDate: "not-a-date", wantNil: true},
		{name: "неверный формат", dueDate: "15.06.2025", wantNil: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			svc := service.NewTaskService(newMemTaskStore())

			task, err := svc.Create(service.CreateTaskInput{
				Title:   "t",
				DueDate: tc.dueDate,
			})
			if err != nil {
				t.Fatalf("невалидная дата не должна быть ошибкой: %v", err)
			}

			if tc.wantNil && task.DueDate != nil {
				t.Fatalf("срок должен отсутствовать, получено %v", task.DueDate)
			}
			if !tc.wantNil {
				if task.DueDate == nil {
					t.Fatal("срок должен быть заполнен")
				}
				if got := task.DueDate.Format("2006-01-02"); got != tc.dueDate {
					t.Fatalf("срок %q, получено %q", tc.dueDate, got)
				}
			}
		})
	}
}

func TestListNormalizesAllFilter(t *testing.T) {
	store := newMemTaskStore()
	svc := service.NewTaskService(store)

	if _, err := svc.List("all", "high", "all"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if store.lastFilter.Status != "" {
		t.Errorf("фильтр all по статусу должен отключаться, получено %q", store.lastFilter.Status)
	}
	if store.lastFilter.Priority != "high" {
		t.Errorf("фильтр по приоритету должен передаваться, получено %q", store.lastFilter.Priority)
	}
	if store.lastFilter.Category != "" {
		t.Errorf("фильтр all по категории должен отключаться, получено %q", store.lastFilter.Category)
	}
}

func TestUpdateTaskPartial(t *testing.T) {
	store := newMemTaskStore()
	svc := service.NewTaskService(store)

	task, err := svc.Create(service.CreateTaskInput{
		Title:   "Исходное название",
		DueDate: "2025-06-15",
	})
	if err != nil {
		t.Fatal(err)
	}

	status := domain.StatusCompleted
	updated, err := svc.Update(task.ID, service.UpdateTaskInput{Status: &status})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if updated.Status != domain.StatusCompleted {
		t.Errorf("статус должен обновиться, получено %q", updated.Status)
	}
	if updated.Title != "Исходное название" {
		t.Errorf("название не должно меняться, получено %q", updated.Title)
	}
	if updated.DueDate == nil {
		t.Error("срок не должен пропадать")
	}
}

func TestUpdateTaskDueDate(t *testing.T) {
	store := newMemTaskStore()
	svc := service.NewTaskService(store)

	task, err := svc.Create(service.CreateTaskInput{Title: "t", DueDate: "2025-06-15"})
	if err != nil {
		t.Fatal(err)
	}

	// Невалидная дата оставляет старое значение
	bad := "garbage"
	updated, err := svc.Update(task.ID, service.UpdateTaskInput{DueDate: &bad})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate == nil {
		t.Fatal("невалидная дата не должна стирать срок")
	}

	// Пустая строка очищает срок
	empty := ""
	updated, err = svc.Update(task.ID, service.UpdateTaskInput{DueDate: &empty})
	if err != nil {
		t.Fatal(err)
	}
	if updated.DueDate != nil {
		t.Fatal("пустая строка должна очищать срок")
	}
}

func TestUpdateTaskNotFound(t *testing.T) {
	svc := service.NewTaskService(newMemTaskStore())

	title := "x"
	_, err := svc.Update("missing", service.UpdateTaskInput{Title: &title})
	if !errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("ожидалась ошибка отсутствия задачи, получено %v", err)
	}
}

func TestDeleteTaskNotFound(t *testing.T) {
	svc := service.NewTaskService(newMemTaskStore())

	if err := svc.Delete("missing"); !errors.Is(err, service.ErrTaskNotFound) {
		t.Fatalf("ожидалась ошибка отсутствия задачи, получено %v", err)
	}
}
