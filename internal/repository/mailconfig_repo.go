package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"taskmanager/internal/domain"
)

// MailConfigRepository — репозиторий настроек исходящей почты
type MailConfigRepository struct {
	db *sql.DB
}

// NewMailConfigRepository создаёт новый репозиторий
func NewMailConfigRepository(db *sql.DB) *MailConfigRepository {
	return &MailConfigRepository{db: db}
}

// GetActive возвращает активные настройки владельца
// Отсутствие настроек — нормальное состояние, возвращается nil без ошибки
func (r *MailConfigRepository) GetActive(ownerKey string) (*domain.MailConfig, error) {
	query := `
        SELECT id, owner_key, smtp_server, smtp_port, use_tls, use_ssl,
               username, password, sender_email, is_active, created_at, updated_at
        FROM mail_configs
        WHERE owner_key = $1 AND is_active = true
        ORDER BY created_at DESC
        LIMIT 1
    `

	cfg := &domain.MailConfig{}
	err := r.db.QueryRow(query, ownerKey).Scan(
		&cfg.ID,
		&cfg.OwnerKey,
		&cfg.SMTPServer,
		&cfg.SMTPPort,
		&cfg.UseTLS,
		&cfg.UseSSL,
		&cfg.Username,
		&cfg.Password,
		&cfg.SenderEmail,
		&cfg.IsActive,
		&cfg.CreatedAt,
		&cfg.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// ReplaceActive деактивирует старые настройки владельца и сохраняет новые.
// Обе операции идут в одной транзакции, чтобы в любой момент
// у владельца было не больше одной активной записи
func (r *MailConfigRepository) ReplaceActive(ownerKey string, cfg *domain.MailConfig) (*domain.MailConfig, error) {
	if cfg.SMTPPort <= 0 {
		return nil, fmt.Errorf("недопустимый SMTP-порт: %d", cfg.SMTPPort)
	}

	// Адрес отправителя по умолчанию совпадает с логином
	if cfg.SenderEmail == "" {
		cfg.SenderEmail = cfg.Username
	}

	now := time.Now()
	cfg.ID = uuid.New().String()
	cfg.OwnerKey = ownerKey
	cfg.IsActive = true
	cfg.CreatedAt = now
	cfg.UpdatedAt = now

	tx, err := r.db.Begin()
	if err != nil {
		return nil, err
	}
	// Rollback после успешного Commit ничего не делает
	defer tx.Rollback()

	// Снимаем флаг активности со всех старых записей владельца
	_, err = tx.Exec(`UPDATE mail_configs SET is_active = false, updated_at = $2 WHERE owner_key = $1`, ownerKey, now)
	if err != nil {
		return nil, err
	}

	// Вставляем новую активную запись
	_, err = tx.Exec(`
        INSERT INTO mail_configs (id, owner_key, smtp_server, smtp_port, use_tls, use_ssl,
                                  username, password, sender_email, is_active, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
    `,
		cfg.ID,
		cfg.OwnerKey,
		cfg.SMTPServer,
		cfg.SMTPPort,
		cfg.UseTLS,
		cfg.UseSSL,
		cfg.Username,
		cfg.Password,
		cfg.SenderEmail,
		cfg.IsActive,
		cfg.CreatedAt,
		cfg.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DeleteActive удаляет активные настройки владельца
// Возвращает true, если запись существовала
func (r *MailConfigRepository) DeleteActive(ownerKey string) (bool, error) {
	query := `DELETE FROM mail_configs WHERE owner_key = $1 AND is_active = true`

	result, err := r.db.Exec(query, ownerKey)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected > 0, nil
}
