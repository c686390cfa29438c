package mailer

import (
	"fmt"
	"html"
	"strings"

	"taskmanager/internal/domain"
)

// Форматы дат в письме (совпадают с форматом в API)
const (
	dateTimeFormat = "2006-01-02 15:04"
	dateFormat     = "2006-01-02"
)

// Подписи статусов на русском
var statusLabels = map[string]string{
	domain.StatusPending:    "⏳ Ожидает",
	domain.StatusInProgress: "🚀 В работе",
	domain.StatusCompleted:  "✅ Выполнено",
}

// Подписи приоритетов на русском
var priorityLabels = map[string]string{
	domain.PriorityLow:    "🔵 Низкий",
	domain.PriorityMedium: "🟡 Средний",
	domain.PriorityHigh:   "🔴 Высокий",
}

// statusLabel возвращает подпись статуса
// Неизвестный статус показываем как есть, без ошибки
func statusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// priorityLabel возвращает подпись приоритета
func priorityLabel(priority string) string {
	if label, ok := priorityLabels[priority]; ok {
		return label
	}
	return priority
}

// Compose составляет тему и оба тела письма по снимку задачи.
// Текстовая и HTML-версии строятся из одного снимка за один вызов,
// поэтому по содержанию они не расходятся.
// Функция чистая: никакого I/O и побочных эффектов
func Compose(snap domain.TaskSnapshot) (subject, text, htmlBody string) {
	subject = "Новая задача: " + snap.Title

	text = composeText(snap)
	htmlBody = composeHTML(snap)

	return subject, text, htmlBody
}

// composeText собирает простую текстовую версию письма
func composeText(snap domain.TaskSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Новая задача: %s\n\n", snap.Title)

	// Необязательные поля просто пропускаем — никаких "нет" и пустых строк
	if snap.Description != "" {
		fmt.Fprintf(&b, "Описание: %s\n\n", snap.Description)
	}

	fmt.Fprintf(&b, "Статус: %s\n", statusLabel(snap.Status))
	fmt.Fprintf(&b, "Приоритет: %s\n", priorityLabel(snap.Priority))

	if snap.Category != "" {
		fmt.Fprintf(&b, "Категория: %s\n", snap.Category)
	}
	if snap.DueDate != nil {
		fmt.Fprintf(&b, "Срок выполнения: %s\n", snap.DueDate.Format(dateFormat))
	}

	fmt.Fprintf(&b, "Дата создания: %s\n\n", snap.CreatedAt.Format(dateTimeFormat))
	fmt.Fprintf(&b, "Задача #%s\n", snap.ID)

	return b.String()
}

// composeHTML собирает HTML-версию письма с карточкой задачи
func composeHTML(snap domain.TaskSnapshot) string {
	var b strings.Builder

	b.WriteString(`<!DOCTYPE html>
<html>
<head>
<style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background-color: #4f46e5; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background-color: #f9fafb; padding: 30px; border-radius: 0 0 8px 8px; border: 1px solid #e5e7eb; }
    .task-card { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #4f46e5; }
    .badge { display: inline-block; padding: 4px 12px; border-radius: 20px; font-size: 14px; font-weight: 500; }
    .badge-pending { background: #fef3c7; color: #92400e; }
    .badge-in_progress { background: #dbeafe; color: #1e40af; }
    .badge-completed { background: #d1fae5; color: #065f46; }
    .badge-low { background: #dbeafe; color: #1e40af; }
    .badge-medium { background: #fef3c7; color: #92400e; }
    .badge-high { background: #fee2e2; color: #991b1b; }
    .info-row { margin: 10px 0; }
    .label { font-weight: 600; color: #6b7280; }
    .footer { margin-top: 30px; padding-top: 20px; border-top: 1px solid #e5e7eb; color: #6b7280; font-size: 14px; }
</style>
</head>
<body>
<div class="container">
    <div class="header">
        <h1>📋 Новая задача назначена</h1>
    </div>
    <div class="content">
        <div class="task-card">
`)

	fmt.Fprintf(&b, "            <h2 style=\"margin-top: 0;\">%s</h2>\n", html.EscapeString(snap.Title))

	if snap.Description != "" {
		fmt.Fprintf(&b, "            <p><strong>Описание:</strong> %s</p>\n", html.EscapeString(snap.Description))
	}

	fmt.Fprintf(&b, `            <div class="info-row">
                <span class="label">Статус:</span>
                <span class="badge badge-%s">%s</span>
            </div>
`, html.EscapeString(snap.Status), html.EscapeString(statusLabel(snap.Status)))

	fmt.Fprintf(&b, `            <div class="info-row">
                <span class="label">Приоритет:</span>
                <span class="badge badge-%s">%s</span>
            </div>
`, html.EscapeString(snap.Priority), html.EscapeString(priorityLabel(snap.Priority)))

	if snap.Category != "" {
		fmt.Fprintf(&b, "            <div class=\"info-row\"><span class=\"label\">Категория:</span> %s</div>\n",
			html.EscapeString(snap.Category))
	}
	if snap.DueDate != nil {
		fmt.Fprintf(&b, "            <div class=\"info-row\"><span class=\"label\">Срок выполнения:</span> %s</div>\n",
			snap.DueDate.Format(dateFormat))
	}

	fmt.Fprintf(&b, "            <div class=\"info-row\"><span class=\"label\">Дата создания:</span> %s</div>\n",
		snap.CreatedAt.Format(dateTimeFormat))

	fmt.Fprintf(&b, `        </div>
        <div class="footer">
            <p>Это письмо отправлено из Task Manager. Задача #%s</p>
        </div>
    </div>
</div>
</body>
</html>
`, html.EscapeString(snap.ID))

	return b.String()
}
