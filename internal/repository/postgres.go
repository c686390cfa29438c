package repository

import (
	"database/sql"
	"fmt"

	// Импортируем драйвер PostgreSQL
	_ "github.com/lib/pq"

	"taskmanager/internal/config"
)

// PostgresDB — обёртка над подключением к PostgreSQL
type PostgresDB struct {
	DB *sql.DB // Стандартный интерфейс Go для работы с БД
}

// NewPostgresDB создаёт новое подключение к PostgreSQL
func NewPostgresDB(cfg config.DatabaseConfig) (*PostgresDB, error) {
	// Формируем строку подключения
	connStr := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.Name,
	)

	// Открываем соединение с базой данных
	// sql.Open не устанавливает соединение сразу, только проверяет параметры
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия БД: %w", err)
	}

	// Проверяем, что соединение работает
	// Ping отправляет запрос к БД и ждёт ответа
	err = db.Ping()
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}

	return &PostgresDB{DB: db}, nil
}

// Migrate создаёт таблицы, если их ещё нет
func (p *PostgresDB) Migrate() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS tasks (
			id             TEXT PRIMARY KEY,
			title          TEXT NOT NULL,
			description    TEXT NOT NULL DEFAULT '',
			status         TEXT NOT NULL DEFAULT 'pending',
			priority       TEXT NOT NULL DEFAULT 'medium',
			category       TEXT NOT NULL DEFAULT '',
			due_date       DATE,
			assigned_email TEXT NOT NULL DEFAULT '',
			created_at     TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mail_configs (
			id           TEXT PRIMARY KEY,
			owner_key    TEXT NOT NULL,
			smtp_server  TEXT NOT NULL,
			smtp_port    INTEGER NOT NULL,
			use_tls      BOOLEAN NOT NULL,
			use_ssl      BOOLEAN NOT NULL,
			username     TEXT NOT NULL,
			password     TEXT NOT NULL,
			sender_email TEXT NOT NULL,
			is_active    BOOLEAN NOT NULL,
			created_at   TIMESTAMPTZ NOT NULL,
			updated_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mail_configs_owner_active
			ON mail_configs (owner_key) WHERE is_active`,
	}

	for _, q := range queries {
		if _, err := p.DB.Exec(q); err != nil {
			return fmt.Errorf("ошибка миграции: %w", err)
		}
	}

	return nil
}

// Close закрывает соединение с базой данных
func (p *PostgresDB) Close() error {
	return p.DB.Close()
}
