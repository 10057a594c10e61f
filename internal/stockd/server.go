package stockd

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

type productResponse struct {
	ID    int64       `json:"id"`
	Title string      `json:"title"`
	Price json.Number `json:"price"`
}

type stockResponse struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

type setStockRequest struct {
	Quantity *int `json:"quantity"`
}

// Handler serves the catalog and stock endpoints.
type Handler struct {
	inv    *Inventory
	logger *zap.Logger
}

// NewHandler wires a handler over inv.
func NewHandler(inv *Inventory, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{inv: inv, logger: logger}
}

// RegisterRoutes registers /products and /stock/:id.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/products", h.listProducts)
	e.GET("/stock/:id", h.getStock)
	e.PUT("/stock/:id", h.putStock)
}

// NewServer returns an echo instance serving inv.
func NewServer(inv *Inventory, logger *zap.Logger) *echo.Echo {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	NewHandler(inv, logger).RegisterRoutes(e)
	return e
}

func (h *Handler) listProducts(c echo.Context) error {
	products := h.inv.Products()
	out := make([]productResponse, 0, len(products))
	for _, p := range products {
		out = append(out, productResponse{
			ID:    p.ID,
			Title: p.Title,
			Price: json.Number(p.Price.String()),
		})
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) getStock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	p, err := h.inv.Lookup(id)
	if err != nil {
		return writeError(c, err)
	}

	if p.Latency > 0 {
		timer := time.NewTimer(p.Latency)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-c.Request().Context().Done():
			return c.Request().Context().Err()
		}
		// Stock may have changed while waiting.
		if p, err = h.inv.Lookup(id); err != nil {
			return writeError(c, err)
		}
	}

	return c.JSON(http.StatusOK, stockResponse{ID: p.ID, Quantity: p.Stock})
}

func (h *Handler) putStock(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	var req setStockRequest
	if err := c.Bind(&req); err != nil || req.Quantity == nil || *req.Quantity < 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "quantity must be a non-negative integer"})
	}
	if err := h.inv.SetStock(id, *req.Quantity); err != nil {
		return writeError(c, err)
	}

	h.logger.Info("stock updated", zap.Int64("product_id", id), zap.Int("quantity", *req.Quantity))
	return c.JSON(http.StatusOK, stockResponse{ID: id, Quantity: *req.Quantity})
}

func writeError(c echo.Context, err error) error {
	if errors.Is(err, ErrUnknownProduct) {
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
