package service

import (
	"errors"
	"time"

	"taskmanager/internal/domain"
	"taskmanager/internal/mailer"
)

// Ошибки сервиса
var (
	ErrConfigNotFound = errors.New("настройки email не найдены")
	ErrInvalidPort    = errors.New("недопустимый SMTP-порт")
)

// MailConfigStore — хранилище настроек исходящей почты
type MailConfigStore interface {
	GetActive(ownerKey string) (*domain.MailConfig, error)
	ReplaceActive(ownerKey string, cfg *domain.MailConfig) (*domain.MailConfig, error)
	DeleteActive(ownerKey string) (bool, error)
}

// MailDispatcher — отправка составленного письма
type MailDispatcher interface {
	Send(cfg *domain.MailConfig, recipient, subject, textBody, htmlBody string) domain.DispatchResult
}

// NotifyService — фасад подсистемы уведомлений:
// читает настройки, составляет письмо и отправляет его
type NotifyService struct {
	configs  MailConfigStore
	dispatch MailDispatcher
	ownerKey string
}

// NewNotifyService создаёт новый сервис
func NewNotifyService(configs MailConfigStore, dispatch MailDispatcher, ownerKey string) *NotifyService {
	return &NotifyService{
		configs:  configs,
		dispatch: dispatch,
		ownerKey: ownerKey,
	}
}

// send — общий путь всех трёх точек входа:
// прочитать настройки, составить письмо, отправить
func (s *NotifyService) send(snap domain.TaskSnapshot, recipient string) (domain.DispatchResult, error) {
	// Настройки читаются заново перед каждой отправкой,
	// чтобы сразу видеть сохранённые из других запросов
	cfg, err := s.configs.GetActive(s.ownerKey)
	if err != nil {
		return domain.DispatchResult{}, err
	}

	subject, text, html := mailer.Compose(snap)

	result := s.dispatch.Send(cfg, recipient, subject, text, html)
	GlobalStats.RecordDispatch(result.Success)

	return result, nil
}

// SendOnCreate отправляет уведомление о только что созданной задаче.
// Вызывается только когда клиент попросил отправку и указал получателя.
// Создание задачи уже состоялось, поэтому здесь любая ошибка,
// включая недоступное хранилище настроек, превращается в результат
func (s *NotifyService) SendOnCreate(task *domain.Task, recipient string) domain.DispatchResult {
	result, err := s.send(task.Snapshot(), recipient)
	if err != nil {
		return domain.DispatchResult{
			Message: "Ошибка чтения настроек email: " + err.Error(),
		}
	}

	return result
}

// SendForExisting отправляет существующую задачу по email.
// Получатель — переданный адрес, иначе назначенный в задаче
func (s *NotifyService) SendForExisting(task *domain.Task, recipientOverride string) (domain.DispatchResult, error) {
	recipient := recipientOverride
	if recipient == "" {
		recipient = task.AssignedEmail
	}
	if recipient == "" {
		return domain.DispatchResult{Message: "Не указан email получателя"}, nil
	}

	return s.send(task.Snapshot(), recipient)
}

// SendTest отправляет тестовое письмо с фиксированной задачей.
// Проверка настроек проходит ровно тот же путь, что и настоящая отправка
func (s *NotifyService) SendTest(recipient string) (domain.DispatchResult, error) {
	snap := domain.TaskSnapshot{
		ID:          "0",
		Title:       "Тестовая задача",
		Description: "Это тестовое письмо для проверки работы email отправки.",
		Status:      domain.StatusPending,
		Priority:    domain.PriorityMedium,
		Category:    "Тест",
		CreatedAt:   time.Now(),
	}

	GlobalStats.IncrementTestEmails()

	return s.send(snap, recipient)
}

// GetConfig возвращает активные настройки почты
// Отсутствие настроек — нормальное состояние: nil без ошибки
func (s *NotifyService) GetConfig() (*domain.MailConfig, error) {
	return s.configs.GetActive(s.ownerKey)
}

// SaveConfig сохраняет новые настройки почты, заменяя старые
func (s *NotifyService) SaveConfig(cfg *domain.MailConfig) (*domain.MailConfig, error) {
	// Значения по умолчанию как в форме настроек
	if cfg.SMTPServer == "" {
		cfg.SMTPServer = "smtp.gmail.com"
	}
	if cfg.SMTPPort == 0 {
		cfg.SMTPPort = 587
	}
	if cfg.SMTPPort < 0 {
		return nil, ErrInvalidPort
	}

	return s.configs.ReplaceActive(s.ownerKey, cfg)
}

// DeleteConfig удаляет активные настройки почты
func (s *NotifyService) DeleteConfig() error {
	existed, err := s.configs.DeleteActive(s.ownerKey)
	if err != nil {
		return err
	}
	if !existed {
		return ErrConfigNotFound
	}

	return nil
}
