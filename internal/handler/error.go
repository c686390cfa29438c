package handler

// ErrorResponse — стандартный формат ошибки API.
// Details заполняется только для ошибок разбора запроса
type ErrorResponse struct {
	Error   string `json:"error"`             // Сообщение об ошибке
	Details string `json:"details,omitempty"` // Причина ошибки разбора
}
