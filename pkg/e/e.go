package e

import "fmt"

var (
	// Внутренние ошибки с транзакциями
	ErrTransactionNotFound = fmt.Errorf("transaction not found")

	// Ошибки конфигурации
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect environment variable")

	// 400 Bad Request
	ErrStatusBadRequest   = fmt.Errorf("bad request")
	ErrNoProducts         = fmt.Errorf("no products provided")
	ErrNoToken            = fmt.Errorf("no token provided")
	ErrInvalidJSON        = fmt.Errorf("invalid json body")
	ErrInvalidInput       = fmt.Errorf("invalid input")
	ErrInvalidAmount      = fmt.Errorf("amount must be positive")
	ErrNotEnoughAvailable = fmt.Errorf("not enough products available")
	ErrShoplessBooking    = fmt.Errorf("product is not available for delivery")
	ErrInvalidPrice       = fmt.Errorf("invalid price")
	ErrPricePrecision     = fmt.Errorf("price must have at most 2 decimal places")

	// 401 Unauthorized
	ErrTokenNotFound = fmt.Errorf("token not found")

	// 403 Forbidden
	ErrPermissionDenied = fmt.Errorf("permission denied")

	// 404 Not Found
	ErrNotFound            = fmt.Errorf("not found")
	ErrShopNotFound        = fmt.Errorf("shop not found")
	ErrProductNotFound     = fmt.Errorf("product not found")
	ErrShopProductNotFound = fmt.Errorf("shop product not found")
	ErrOrderNotFound       = fmt.Errorf("order not found")
	ErrOrderStatusNotFound = fmt.Errorf("order status not found")
	ErrCartNotFound        = fmt.Errorf("cart not found")
	ErrCartProductNotFound = fmt.Errorf("cart product not found")

	// 500 Internal Server Error
	ErrInternalServerError = fmt.Errorf("internal server error")
	ErrBulkInsertFailed    = fmt.Errorf("shop products bulk insert failed")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}
