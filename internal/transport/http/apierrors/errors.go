// apierrors стандартизирует ответы об ошибках HTTP-слоя.
// На вход он принимает ошибку сервисного слоя (сентинелы service.Err*),
// а на выход даёт:
//   - корректный HTTP-статус;
//   - краткое безопасное message без утечки деталей.
package apierrors

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/pribylovaa/contacts-service/internal/service"
)

// Нестандартный код часто используемый для "клиент закрыл соединение".
const StatusClientClosedRequest = 499

// APIError — единый формат для фронта.
// Code — короткий стабильный код для машиночитаемой обработки на FE.
// Message — безопасное человекочитаемое описание.
// RequestID — прокидывается из X-Request-Id, если есть (для трассировки).
type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// ErrorResponse — корневой объект в ответе.
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// ErrUnauthenticated — локальная ошибка транспортного слоя: запрос без
// валидного access-токена.
var ErrUnauthenticated = errors.New("unauthenticated")

// ToHTTP конвертирует ошибку сервисного слоя в HTTP-статус и
// унифицированный ответ для фронта.
//
// Поведение:
//   - err == nil - это программная ошибка вызова: возвращаем 500/internal,
//     чтобы не послать "200 OK" с телом ошибки и не маскировать баг.
//   - неизвестная ошибка - 500/internal (без утечки деталей).
func ToHTTP(err error) (int, ErrorResponse) {
	status, code, msg := base(err)

	return status, ErrorResponse{
		Error: APIError{
			Code:    code,
			Message: msg,
		},
	}
}

// WriteError — хелпер для HTTP-хендлеров.
// Пишет корректный статус/тело, добавляет request_id из заголовка, если он есть.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := ToHTTP(err)

	// Прокидываем request_id для фронта, чтобы он мог репортить баги с привязкой.
	if rid := r.Header.Get("X-Request-Id"); rid != "" {
		resp.Error.RequestID = rid
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// base — маппинг сентинелов сервисного слоя -> HTTP/FE-код/сообщение.
//   - ErrInvalidArgument (битые входные/UUID/пресет) -> 400
//   - ErrNotFound -> 404
//   - ErrAlreadyExists -> 409
//   - ErrSelfFollow / ErrAlreadyFollowing / ErrRequestPending -> 409
//   - ErrNotReceiver -> 403
//   - ErrTokenExpired -> 410 (ресурс был, но больше не действителен)
//   - ErrTokenConsumed / ErrSelfRedeem -> 409
//   - ErrUnauthenticated -> 401
//   - context.Canceled -> 499, context.DeadlineExceeded -> 504
//   - прочее -> 500/internal
func base(err error) (int, string, string) {
	switch {
	case err == nil:
		return http.StatusInternalServerError, "internal", "internal error"
	case errors.Is(err, service.ErrInvalidArgument):
		return http.StatusBadRequest, "invalid_argument", "invalid argument"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "not_found", "not found"
	case errors.Is(err, service.ErrAlreadyExists):
		return http.StatusConflict, "already_exists", "already exists"
	case errors.Is(err, service.ErrSelfFollow):
		return http.StatusConflict, "self_follow", "cannot follow yourself"
	case errors.Is(err, service.ErrAlreadyFollowing):
		return http.StatusConflict, "already_following", "contact already approved"
	case errors.Is(err, service.ErrRequestPending):
		return http.StatusConflict, "request_pending", "counter request is pending"
	case errors.Is(err, service.ErrNotReceiver):
		return http.StatusForbidden, "not_receiver", "only the request receiver can approve"
	case errors.Is(err, service.ErrTokenExpired):
		return http.StatusGone, "token_expired", "token expired"
	case errors.Is(err, service.ErrTokenConsumed):
		return http.StatusConflict, "token_consumed", "token already consumed"
	case errors.Is(err, service.ErrSelfRedeem):
		return http.StatusConflict, "self_redeem", "cannot redeem your own token"
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated", "unauthenticated"
	case errors.Is(err, context.Canceled):
		return StatusClientClosedRequest, "canceled", "canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "deadline_exceeded", "deadline exceeded"
	default:
		return http.StatusInternalServerError, "internal", "internal error"
	}
}
