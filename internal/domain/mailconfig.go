package domain

import (
	"time"
)

// MailConfig — настройки исходящей почты (SMTP)
// Для каждого владельца активен не более чем один набор настроек
type MailConfig struct {
	ID          string    `json:"id"`           // Уникальный идентификатор (UUID)
	OwnerKey    string    `json:"-"`            // Пространство имён владельца ("default")
	SMTPServer  string    `json:"smtp_server"`  // Адрес SMTP-сервера
	SMTPPort    int       `json:"smtp_port"`    // Порт SMTP-сервера
	UseTLS      bool      `json:"use_tls"`      // Использовать STARTTLS
	UseSSL      bool      `json:"use_ssl"`      // Использовать SSL-соединение с самого начала
	Username    string    `json:"username"`     // Логин
	Password    string    `json:"-"`            // Пароль. В реальном приложении нужно шифровать
	SenderEmail string    `json:"sender_email"` // Адрес отправителя
	IsActive    bool      `json:"is_active"`    // Активны ли эти настройки
	CreatedAt   time.Time `json:"created_at"`   // Дата создания
	UpdatedAt   time.Time `json:"updated_at"`   // Дата обновления
}

// Usable проверяет, заполнены ли обязательные поля для отправки
func (c *MailConfig) Usable() bool {
	return c.Username != "" && c.Password != ""
}

// DispatchResult — результат одной попытки отправки письма
type DispatchResult struct {
	Success bool   `json:"success"` // Удалась ли отправка
	Message string `json:"message"` // Человекочитаемое сообщение
}
