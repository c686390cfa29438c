package service

import (
	"sync"
	"time"
)

// Stats хранит счётчики работы процесса
type Stats struct {
	mu           sync.RWMutex // Мьютекс для безопасного доступа
	TasksCreated int64        // Всего создано задач
	EmailsSent   int64        // Успешно отправлено писем
	EmailsFailed int64        // Неудачных отправок
	TestEmails   int64        // Тестовых отправок
	LastDispatch time.Time    // Время последней попытки отправки
}

// GlobalStats — глобальная статистика процесса
var GlobalStats = &Stats{}

// IncrementTasks увеличивает счётчик созданных задач
func (s *Stats) IncrementTasks() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TasksCreated++
}

// RecordDispatch учитывает одну попытку отправки письма
func (s *Stats) RecordDispatch(success bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if success {
		s.EmailsSent++
	} else {
		s.EmailsFailed++
	}
	s.LastDispatch = time.Now()
}

// IncrementTestEmails увеличивает счётчик тестовых отправок
func (s *Stats) IncrementTestEmails() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.TestEmails++
}

// GetStats возвращает копию статистики
func (s *Stats) GetStats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Stats{
		TasksCreated: s.TasksCreated,
		EmailsSent:   s.EmailsSent,
		EmailsFailed: s.EmailsFailed,
		TestEmails:   s.TestEmails,
		LastDispatch: s.LastDispatch,
	}
}
