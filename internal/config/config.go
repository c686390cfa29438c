package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config — главная структура конфигурации приложения
// Все поля заполняются из переменных окружения
type Config struct {
	Server   ServerConfig   // Настройки сервера
	Database DatabaseConfig // Настройки базы данных
	Mail     MailConfig     // Настройки почтовых уведомлений
}

// ServerConfig — настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"` // Порт HTTP сервера
}

// DatabaseConfig — настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"` // Адрес сервера БД
	Port     int    `envconfig:"DB_PORT" default:"5432"`      // Порт БД
	Name     string `envconfig:"DB_NAME" default:"tasks"`     // Имя базы данных
	User     string `envconfig:"DB_USER" default:"postgres"`  // Пользователь БД
	Password string `envconfig:"DB_PASSWORD" required:"true"` // Пароль БД (обязательный)
}

// MailConfig — настройки подсистемы уведомлений
// Сами SMTP-учётные данные хранятся в базе и задаются через API
type MailConfig struct {
	OwnerKey    string        `envconfig:"MAIL_OWNER_KEY" default:"default"` // Пространство имён настроек
	SMTPTimeout time.Duration `envconfig:"SMTP_TIMEOUT" default:"30s"`       // Таймаут сетевых операций SMTP
}

// Load загружает конфигурацию из переменных окружения
// Сначала пытается прочитать файл .env, затем читает переменные окружения
func Load() (*Config, error) {
	// Пытаемся загрузить .env файл
	// Если файла нет — не страшно, будем читать из системных переменных
	_ = godotenv.Load()

	// Создаём пустую структуру конфигурации
	var cfg Config

	// Заполняем структуру из переменных окружения
	// Если обязательное поле отсутствует — вернётся ошибка
	err := envconfig.Process("", &cfg)
	if err != nil {
		return nil, err
	}

	// Возвращаем указатель на конфигурацию
	return &cfg, nil
}
