package mailer

// Preset — преднастройка известного почтового сервиса
// Используется для автозаполнения формы настроек на клиенте
type Preset struct {
	Name       string `json:"name"`        // Название сервиса
	SMTPServer string `json:"smtp_server"` // Адрес SMTP-сервера
	SMTPPort   int    `json:"smtp_port"`   // Порт
	UseTLS     bool   `json:"use_tls"`     // Нужен ли STARTTLS
	UseSSL     bool   `json:"use_ssl"`     // Нужен ли SSL
	Hint       string `json:"hint"`        // Подсказка пользователю
}

// Presets возвращает преднастройки популярных почтовых сервисов
// Данные статичны, состояния у них нет
func Presets() map[string]Preset {
	return map[string]Preset{
		"gmail": {
			Name:       "Gmail",
			SMTPServer: "smtp.gmail.com",
			SMTPPort:   587,
			UseTLS:     true,
			UseSSL:     false,
			Hint:       "Используйте пароль приложения",
		},
		"yandex": {
			Name:       "Yandex Mail",
			SMTPServer: "smtp.yandex.ru",
			SMTPPort:   465,
			UseTLS:     false,
			UseSSL:     true,
			Hint:       "Используйте пароль приложения",
		},
		"mailru": {
			Name:       "Mail.ru",
			SMTPServer: "smtp.mail.ru",
			SMTPPort:   465,
			UseTLS:     false,
			UseSSL:     true,
			Hint:       "Используйте пароль приложения",
		},
		"outlook": {
			Name:       "Outlook/Hotmail",
			SMTPServer: "smtp.office365.com",
			SMTPPort:   587,
			UseTLS:     true,
			UseSSL:     false,
			Hint:       "Используйте обычный пароль",
		},
	}
}
