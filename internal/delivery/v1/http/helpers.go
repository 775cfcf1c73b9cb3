package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/DRSN-tech/marketplace-sync/internal/usecase"
	"github.com/DRSN-tech/marketplace-sync/pkg/e"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	headerUserID   = "X-User-Id"
	headerUserRole = "X-User-Role"
	headerUserName = "X-User-Name"
	cartCookieName = "cart_id"
	cartCookieAge  = 60 * 60 * 24 * 365
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrStatusBadRequest):
		return http.StatusBadRequest, e.ErrStatusBadRequest.Error()
	case errors.Is(err, e.ErrNoProducts):
		return http.StatusBadRequest, e.ErrNoProducts.Error()
	case errors.Is(err, e.ErrNoToken):
		return http.StatusBadRequest, e.ErrNoToken.Error()
	case errors.Is(err, e.ErrInvalidJSON):
		return http.StatusBadRequest, e.ErrInvalidJSON.Error()
	case errors.Is(err, e.ErrInvalidInput):
		return http.StatusBadRequest, e.ErrInvalidInput.Error()
	case errors.Is(err, e.ErrInvalidPrice):
		return http.StatusBadRequest, e.ErrInvalidPrice.Error()
	case errors.Is(err, e.ErrPricePrecision):
		return http.StatusBadRequest, e.ErrPricePrecision.Error()
	case errors.Is(err, e.ErrTokenNotFound):
		return http.StatusUnauthorized, e.ErrTokenNotFound.Error()
	case errors.Is(err, e.ErrPermissionDenied):
		return http.StatusForbidden, e.ErrPermissionDenied.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// priceToCents переводит цену в рублях ("599.99", 600) в копейки.
// Отрицательные цены, больше двух знаков после запятой и суммы свыше миллиарда рублей отклоняются.
func priceToCents(d decimal.Decimal) (int64, error) {
	if d.LessThan(decimal.Zero) {
		return 0, e.ErrInvalidPrice
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.ErrInvalidPrice
	}

	if !d.Equal(d.Truncate(2)) {
		return 0, e.ErrPricePrecision
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}

// actorFromRequest собирает пользователя из заголовков, проставленных шлюзом.
func actorFromRequest(r *http.Request) (usecase.Actor, error) {
	actor := usecase.Actor{
		Name:   r.Header.Get(headerUserName),
		Role:   r.Header.Get(headerUserRole),
		Locale: r.Header.Get("Accept-Language"),
	}

	if raw := r.Header.Get(headerUserID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			return actor, e.Wrap(headerUserID, e.ErrStatusBadRequest)
		}
		actor.UserID = id
	}

	return actor, nil
}

// cartRefFromRequest: авторизованный пользователь определяется заголовком, гость по cookie cart_id.
func cartRefFromRequest(r *http.Request) (usecase.CartRef, error) {
	actor, err := actorFromRequest(r)
	if err != nil {
		return usecase.CartRef{}, err
	}

	ref := usecase.CartRef{Locale: actor.Locale}
	if actor.UserID != 0 {
		ref.UserID = &actor.UserID
	}

	if cookie, err := r.Cookie(cartCookieName); err == nil {
		if id, err := uuid.Parse(cookie.Value); err == nil {
			ref.CartID = &id
		}
	}

	return ref, nil
}

func setCartCookie(w http.ResponseWriter, ref usecase.CartRef, cartID *uuid.UUID) {
	if cartID == nil || ref.UserID != nil {
		return
	}
	if ref.CartID != nil && *ref.CartID == *cartID {
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     cartCookieName,
		Value:    cartID.String(),
		Path:     "/",
		MaxAge:   cartCookieAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return e.Wrap(err.Error(), e.ErrInvalidJSON)
	}

	return nil
}

// urlFilters разбивает хвост пути "page-2/limit-20" на фильтры.
func urlFilters(tail string) []string {
	var filters []string
	for _, f := range strings.Split(tail, "/") {
		if f = strings.TrimSpace(f); f != "" {
			filters = append(filters, f)
		}
	}

	return filters
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, e.Wrap(raw, e.ErrStatusBadRequest)
	}

	return id, nil
}
