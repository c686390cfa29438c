package service_test

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/service"
)

// memConfigStore — хранилище настроек в памяти
// Повторяет контракт репозитория: деактивация старых записей + вставка новой
type memConfigStore struct {
	rows   []*domain.MailConfig
	getErr error
}

func (s *memConfigStore) GetActive(ownerKey string) (*domain.MailConfig, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, row := range s.rows {
		if row.OwnerKey == ownerKey && row.IsActive {
			return row, nil
		}
	}
	return nil, nil
}

func (s *memConfigStore) ReplaceActive(ownerKey string, cfg *domain.MailConfig) (*domain.MailConfig, error) {
	if cfg.SMTPPort <= 0 {
		return nil, fmt.Errorf("недопустимый SMTP-порт: %d", cfg.SMTPPort)
	}
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = cfg.Username
	}

	for _, row := range s.rows {
		if row.OwnerKey == ownerKey {
			row.IsActive = false
		}
	}

	cfg.ID = fmt.Sprintf("cfg-%d", len(s.rows)+1)
	cfg.OwnerKey = ownerKey
	cfg.IsActive = true
	cfg.CreatedAt = time.Now()
	cfg.UpdatedAt = cfg.CreatedAt
	s.rows = append(s.rows, cfg)

	return cfg, nil
}

func (s *memConfigStore) DeleteActive(ownerKey string) (bool, error) {
	for i, row := range s.rows {
		if row.OwnerKey == ownerKey && row.IsActive {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *memConfigStore) activeCount(ownerKey string) int {
	count := 0
	for _, row := range s.rows {
		if row.OwnerKey == ownerKey && row.IsActive {
			count++
		}
	}
	return count
}

// fakeDispatcher записывает переданные аргументы вместо отправки
type fakeDispatcher struct {
	calls     int
	lastCfg   *domain.MailConfig
	recipient string
	subject   string
	textBody  string
	htmlBody  string
	result    domain.DispatchResult
}

func (d *fakeDispatcher) Send(cfg *domain.MailConfig, recipient, subject, textBody, htmlBody string) domain.DispatchResult {
	d.calls++
	d.lastCfg = cfg
	d.recipient = recipient
	d.subject = subject
	d.textBody = textBody
	d.htmlBody = htmlBody
	return d.result
}

func okDispatcher() *fakeDispatcher {
	return &fakeDispatcher{
		result: domain.DispatchResult{Success: true, Message: "Письмо успешно отправлено"},
	}
}

func sampleTask() *domain.Task {
	return &domain.Task{
		ID:            "t-1",
		Title:         "Сделать резервную копию",
		Status:        domain.StatusPending,
		Priority:      domain.PriorityMedium,
		Category:      "general",
		AssignedEmail: "worker@x.com",
		CreatedAt:     time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestSendForExistingNoRecipient(t *testing.T) {
	dispatcher := okDispatcher()
	svc := service.NewNotifyService(&memConfigStore{}, dispatcher, "default")

	task := sampleTask()
	task.AssignedEmail = ""

	result, err := svc.SendForExisting(task, "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if result.Success {
		t.Fatal("ожидалась неудача")
	}
	if result.Message != "Не указан email получателя" {
		t.Fatalf("неожиданное сообщение: %q", result.Message)
	}
	if dispatcher.calls != 0 {
		t.Fatalf("диспетчер не должен вызываться, вызовов: %d", dispatcher.calls)
	}
}

func TestSendForExistingUsesAssignedEmail(t *testing.T) {
	dispatcher := okDispatcher()
	svc := service.NewNotifyService(&memConfigStore{}, dispatcher, "default")

	result, err := svc.SendForExisting(sampleTask(), "")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !result.Success {
		t.Fatalf("ожидался успех, получено %q", result.Message)
	}
	if dispatcher.recipient != "worker@x.com" {
		t.Fatalf("получателем должен быть назначенный email, получен %q", dispatcher.recipient)
	}
}

func TestSendForExistingOverrideWins(t *testing.T) {
	dispatcher := okDispatcher()
	svc := service.NewNotifyService(&memConfigStore{}, dispatcher, "default")

	if _, err := svc.SendForExisting(sampleTask(), "boss@x.com"); err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if dispatcher.recipient != "boss@x.com" {
		t.Fatalf("переданный адрес важнее назначенного, получен %q", dispatcher.recipient)
	}
}

func TestSendOnCreateSwallowsStoreError(t *testing.T) {
	dispatcher := okDispatcher()
	store := &memConfigStore{getErr: errors.New("база недоступна")}
	svc := service.NewNotifyService(store, dispatcher, "default")

	// Задача уже создана — ошибка хранилища настроек
	// не должна превращаться в ошибку запроса
	result := svc.SendOnCreate(sampleTask(), "worker@x.com")

	if result.Success {
		t.Fatal("ожидалась неудача")
	}
	if !strings.Contains(result.Message, "Ошибка чтения настроек email") {
		t.Fatalf("неожиданное сообщение: %q", result.Message)
	}
	if dispatcher.calls != 0 {
		t.Fatal("диспетчер не должен вызываться при ошибке хранилища")
	}
}

func TestSendTestGoesThroughSamePath(t *testing.T) {
	dispatcher := okDispatcher()
	store := &memConfigStore{}
	if _, err := store.ReplaceActive("default", &domain.MailConfig{
		SMTPServer: "smtp.gmail.com",
		SMTPPort:   587,
		Username:   "a@x.com",
		Password:   "p",
	}); err != nil {
		t.Fatalf("подготовка настроек: %v", err)
	}
	svc := service.NewNotifyService(store, dispatcher, "default")

	result, err := svc.SendTest("probe@x.com")
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !result.Success {
		t.Fatalf("ожидался успех, получено %q", result.Message)
	}

	if dispatcher.subject != "Новая задача: Тестовая задача" {
		t.Fatalf("неожиданная тема: %q", dispatcher.subject)
	}
	// У синтетической задачи нет срока выполнения
	if strings.Contains(dispatcher.textBody, "Срок выполнения") {
		t.Fatal("тестовое письмо не должно содержать срок выполнения")
	}
	if !strings.Contains(dispatcher.textBody, "Задача #0") {
		t.Fatalf("в тестовом письме нет маркера задачи: %q", dispatcher.textBody)
	}
	if dispatcher.lastCfg == nil || dispatcher.lastCfg.Username != "a@x.com" {
		t.Fatal("диспетчер должен получить активные настройки")
	}
}

func TestSendReadsConfigBeforeEveryDispatch(t *testing.T) {
	dispatcher := okDispatcher()
	store := &memConfigStore{}
	svc := service.NewNotifyService(store, dispatcher, "default")

	if _, err := store.ReplaceActive("default", &domain.MailConfig{
		SMTPServer: "smtp.gmail.com", SMTPPort: 587, Username: "old@x.com", Password: "p",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendForExisting(sampleTask(), ""); err != nil {
		t.Fatal(err)
	}
	if dispatcher.lastCfg.Username != "old@x.com" {
		t.Fatalf("первая отправка видит старые настройки, получено %q", dispatcher.lastCfg.Username)
	}

	// Настройки меняются между отправками — кэша быть не должно
	if _, err := store.ReplaceActive("default", &domain.MailConfig{
		SMTPServer: "smtp.yandex.ru", SMTPPort: 465, UseSSL: true, Username: "new@x.com", Password: "p",
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SendForExisting(sampleTask(), ""); err != nil {
		t.Fatal(err)
	}
	if dispatcher.lastCfg.Username != "new@x.com" {
		t.Fatalf("вторая отправка должна видеть новые настройки, получено %q", dispatcher.lastCfg.Username)
	}
}

func TestSaveConfigDefaultsAndInvariant(t *testing.T) {
	store := &memConfigStore{}
	svc := service.NewNotifyService(store, okDispatcher(), "default")

	// Несколько сохранений подряд — активной остаётся ровно одна запись
	for i := 0; i < 3; i++ {
		_, err := svc.SaveConfig(&domain.MailConfig{
			Username: fmt.Sprintf("user%d@x.com", i),
			Password: "p",
			UseTLS:   true,
		})
		if err != nil {
			t.Fatalf("сохранение %d: %v", i, err)
		}
		if got := store.activeCount("default"); got != 1 {
			t.Fatalf("активных настроек должно быть 1, получено %d", got)
		}
	}

	cfg, err := svc.GetConfig()
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if cfg == nil {
		t.Fatal("настройки должны существовать")
	}
	// Значения по умолчанию
	if cfg.SMTPServer != "smtp.gmail.com" {
		t.Fatalf("сервер по умолчанию smtp.gmail.com, получено %q", cfg.SMTPServer)
	}
	if cfg.SMTPPort != 587 {
		t.Fatalf("порт по умолчанию 587, получено %d", cfg.SMTPPort)
	}
	// Пустой отправитель заменяется логином
	if cfg.SenderEmail != "user2@x.com" {
		t.Fatalf("отправителем должен стать логин, получено %q", cfg.SenderEmail)
	}
}

func TestSaveConfigRejectsNegativePort(t *testing.T) {
	svc := service.NewNotifyService(&memConfigStore{}, okDispatcher(), "default")

	_, err := svc.SaveConfig(&domain.MailConfig{
		SMTPPort: -25,
		Username: "a@x.com",
		Password: "p",
	})

	if !errors.Is(err, service.ErrInvalidPort) {
		t.Fatalf("ожидалась ошибка порта, получено %v", err)
	}
}

func TestGetConfigNotConfigured(t *testing.T) {
	svc := service.NewNotifyService(&memConfigStore{}, okDispatcher(), "default")

	cfg, err := svc.GetConfig()
	if err != nil {
		t.Fatalf("отсутствие настроек не ошибка, получено %v", err)
	}
	if cfg != nil {
		t.Fatal("настроек быть не должно")
	}
}

func TestDeleteConfig(t *testing.T) {
	store := &memConfigStore{}
	svc := service.NewNotifyService(store, okDispatcher(), "default")

	// Удаление без настроек
	if err := svc.DeleteConfig(); !errors.Is(err, service.ErrConfigNotFound) {
		t.Fatalf("ожидалась ошибка отсутствия настроек, получено %v", err)
	}

	if _, err := svc.SaveConfig(&domain.MailConfig{Username: "a@x.com", Password: "p"}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteConfig(); err != nil {
		t.Fatalf("удаление существующих настроек: %v", err)
	}
	if got := store.activeCount("default"); got != 0 {
		t.Fatalf("после удаления активных настроек быть не должно, получено %d", got)
	}
}
