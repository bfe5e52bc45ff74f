package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spicedrama/ordering-system/internal/api/metrics"
	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// OrderHandler handles order placement and admin order management.
type OrderHandler struct {
	orders ports.OrderService
}

func NewOrderHandler(orders ports.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type orderItemRequest struct {
	FoodID   string `json:"food_id" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type addressRequest struct {
	Street  string `json:"street" validate:"required"`
	City    string `json:"city" validate:"required"`
	ZipCode string `json:"zip_code"`
	Phone   string `json:"phone" validate:"required"`
}

type placeOrderRequest struct {
	Items   []orderItemRequest `json:"items" validate:"required,min=1,dive"`
	Address addressRequest     `json:"address" validate:"required"`
}

type updateStatusRequest struct {
	OrderID string `json:"order_id" validate:"required"`
	Status  string `json:"status" validate:"required"`
}

type orderResponse struct {
	Success bool          `json:"success"`
	Data    *domain.Order `json:"data"`
}

type orderListResponse struct {
	Success bool            `json:"success"`
	Data    []*domain.Order `json:"data"`
}

// Place creates a new order from the caller's item selection.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      placeOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Router       /api/order/place [post]
func (h *OrderHandler) Place(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{FoodID: it.FoodID, Quantity: it.Quantity})
	}

	order, err := h.orders.Place(c.Request().Context(), ports.PlaceOrderInput{
		Items: items,
		Address: domain.DeliveryAddress{
			Street:  req.Address.Street,
			City:    req.Address.City,
			ZipCode: req.Address.ZipCode,
			Phone:   req.Address.Phone,
		},
		PlacedBy: id.UserID,
	})
	if err != nil {
		return err
	}

	metrics.OrdersPlacedTotal.Inc()
	return c.JSON(http.StatusCreated, orderResponse{Success: true, Data: order})
}

// List returns all orders, newest first.
//
// @Summary      List orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  orderListResponse
// @Router       /api/order/list [get]
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.orders.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orderListResponse{Success: true, Data: orders})
}

// UpdateStatus moves an order to a new lifecycle status.
//
// @Summary      Update order status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      updateStatusRequest  true  "Order id and new status"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /api/order/status [post]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	id, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	order, err := h.orders.UpdateStatus(c.Request().Context(), req.OrderID, domain.OrderStatus(req.Status), id.Username)
	if err != nil {
		return err
	}

	metrics.OrderStatusUpdatesTotal.WithLabelValues(req.Status).Inc()
	return c.JSON(http.StatusOK, orderResponse{Success: true, Data: order})
}
