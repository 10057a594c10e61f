package shop

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/five82/basket/internal/cart"
)

var (
	// ErrNotFound is returned when the API has no record of the requested resource.
	ErrNotFound = errors.New("not found")

	// ErrUnavailable is returned while the circuit breaker rejects calls.
	ErrUnavailable = errors.New("shop api unavailable")
)

// StatusError reports an HTTP error status from the API.
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("api %s returned status %d", e.Path, e.Code)
}

// Unwrap maps 404 responses onto ErrNotFound.
func (e *StatusError) Unwrap() error {
	if e.Code == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// productPayload mirrors an element of GET /products. Prices may arrive as
// JSON numbers or strings.
type productPayload struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
}

func (p productPayload) toProduct() cart.Product {
	return cart.Product{
		ID:    cart.ProductID(p.ID),
		Title: p.Title,
		Price: p.Price,
	}
}

// stockPayload mirrors GET /stock/{id}.
type stockPayload struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}
