package mailer

import (
	"bytes"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net"
	"net/textproto"
	"time"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"

	"taskmanager/internal/domain"
)

// Transport — минимальный набор операций SMTP-клиента для отправки одного письма.
// Защиту канала обеспечивает Dialer, поэтому транспорт начинается с аутентификации.
// В тестах подставляется фальшивый транспорт
type Transport interface {
	Auth(a sasl.Client) error
	Mail(from string, opts *smtp.MailOptions) error
	Rcpt(to string, opts *smtp.RcptOptions) error
	Data() (io.WriteCloser, error)
	Quit() error
	Close() error
}

var _ Transport = (*smtp.Client)(nil)

// Dialer устанавливает соединение с SMTP-сервером и защищает канал.
// Способ подключения (SSL, STARTTLS или открытый TCP) выбирается по настройкам
type Dialer interface {
	Dial(cfg *domain.MailConfig) (Transport, error)
}

// netDialer — боевой Dialer поверх TCP
type netDialer struct {
	timeout time.Duration
}

func (d *netDialer) Dial(cfg *domain.MailConfig) (Transport, error) {
	addr := fmt.Sprintf("%s:%d", cfg.SMTPServer, cfg.SMTPPort)
	tlsConfig := &tls.Config{ServerName: cfg.SMTPServer}

	// При включённом SSL соединение шифруется с самого начала;
	// SSL имеет приоритет над STARTTLS, если включены оба флага
	if cfg.UseSSL {
		tlsConn, err := tls.DialWithDialer(
			&net.Dialer{Timeout: d.timeout},
			"tcp",
			addr,
			tlsConfig,
		)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(tlsConn), nil
	}

	conn, err := net.DialTimeout("tcp", addr, d.timeout)
	if err != nil {
		return nil, err
	}

	// STARTTLS поднимает шифрование до первой аутентифицированной команды
	if cfg.UseTLS {
		return smtp.NewClientStartTLS(conn, tlsConfig)
	}
	return smtp.NewClient(conn), nil
}

// Dispatcher отправляет составленные письма через SMTP
type Dispatcher struct {
	dialer Dialer
}

// NewDispatcher создаёт диспетчер с сетевым подключением
// Таймаут ограничивает установку соединения, чтобы один недоступный
// сервер не подвешивал запрос навсегда
func NewDispatcher(timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Dispatcher{dialer: &netDialer{timeout: timeout}}
}

// NewDispatcherWithDialer создаёт диспетчер с произвольным Dialer (для тестов)
func NewDispatcherWithDialer(d Dialer) *Dispatcher {
	return &Dispatcher{dialer: d}
}

// Send отправляет письмо получателю по настройкам cfg.
// Любая ошибка превращается в DispatchResult с понятным сообщением —
// наружу эта операция никогда не паникует и не возвращает ошибку
func (d *Dispatcher) Send(cfg *domain.MailConfig, recipient, subject, textBody, htmlBody string) domain.DispatchResult {
	// Проверки до любых сетевых операций
	if cfg == nil {
		return domain.DispatchResult{
			Message: "Настройки email не найдены. Пожалуйста, настройте email в приложении.",
		}
	}
	if !cfg.Usable() || recipient == "" {
		return domain.DispatchResult{
			Message: "Не все обязательные поля настроек email заполнены",
		}
	}

	// Dial возвращает соединение с уже защищённым каналом;
	// отказ сервера в STARTTLS приходит сюда как ошибка SMTP
	client, err := d.dialer.Dial(cfg)
	if err != nil {
		return failure(err)
	}
	// Соединение закрывается при любом исходе
	defer client.Close()

	// Аутентификация — первая команда после подключения
	// Без TLS и SSL логин уйдёт открытым текстом, но такие настройки допустимы
	if err := client.Auth(sasl.NewPlainClient("", cfg.Username, cfg.Password)); err != nil {
		return authFailure(err)
	}

	if err := client.Mail(cfg.SenderEmail, nil); err != nil {
		return failure(err)
	}
	if err := client.Rcpt(recipient, nil); err != nil {
		return failure(err)
	}

	w, err := client.Data()
	if err != nil {
		return failure(err)
	}

	msg := buildMessage(cfg.SenderEmail, recipient, subject, textBody, htmlBody)
	if _, err := w.Write(msg); err != nil {
		_ = w.Close()
		return failure(err)
	}
	if err := w.Close(); err != nil {
		return failure(err)
	}

	if err := client.Quit(); err != nil && !errors.Is(err, io.EOF) {
		return failure(err)
	}

	return domain.DispatchResult{
		Success: true,
		Message: "Письмо успешно отправлено",
	}
}

// authFailure классифицирует ошибку шага аутентификации.
// Отказ сервера — это неверные учётные данные; сетевой сбой
// на этом шаге классифицируется как обычная ошибка отправки
func authFailure(err error) domain.DispatchResult {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return domain.DispatchResult{
			Message: "Ошибка аутентификации. Проверьте логин и пароль.",
		}
	}
	return failure(err)
}

// failure классифицирует прочие ошибки:
// ответ сервера с кодом — ошибка SMTP, всё остальное — ошибка отправки
func failure(err error) domain.DispatchResult {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return domain.DispatchResult{
			Message: fmt.Sprintf("Ошибка SMTP: %s", smtpErr.Message),
		}
	}
	return domain.DispatchResult{
		Message: fmt.Sprintf("Ошибка отправки: %v", err),
	}
}

// buildMessage собирает multipart/alternative письмо
// с текстовой и HTML-версиями
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	// Тема кодируется по RFC 2047, иначе русский текст испортится
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&buf, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%q\r\n", mw.Boundary())
	fmt.Fprintf(&buf, "\r\n")

	// Сначала текстовая часть, затем HTML — почтовые клиенты
	// показывают последнюю часть, которую умеют отобразить
	textPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/plain; charset=utf-8"},
	})
	_, _ = io.WriteString(textPart, textBody)

	htmlPart, _ := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type": {"text/html; charset=utf-8"},
	})
	_, _ = io.WriteString(htmlPart, htmlBody)

	_ = mw.Close()

	return buf.Bytes()
}
