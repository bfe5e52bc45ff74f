package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/spicedrama/ordering-system/internal/core/domain"
	"github.com/spicedrama/ordering-system/internal/core/ports"
)

// FoodHandler handles catalog CRUD.
type FoodHandler struct {
	foods ports.FoodService
}

func NewFoodHandler(foods ports.FoodService) *FoodHandler {
	return &FoodHandler{foods: foods}
}

type addFoodRequest struct {
	Name        string  `json:"name" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Category    string  `json:"category" validate:"required"`
	ImageURL    string  `json:"image_url"`
}

type updateFoodRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
	Category    *string  `json:"category,omitempty"`
	ImageURL    *string  `json:"image_url,omitempty"`
}

type removeFoodRequest struct {
	ID string `json:"id" validate:"required"`
}

type foodResponse struct {
	Success bool             `json:"success"`
	Data    *domain.FoodItem `json:"data"`
}

type foodListResponse struct {
	Success bool               `json:"success"`
	Data    []*domain.FoodItem `json:"data"`
}

// Add creates a catalog entry.
//
// @Summary      Add a food item
// @Tags         food
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      addFoodRequest  true  "Food item details"
// @Success      201   {object}  foodResponse
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/food/add [post]
func (h *FoodHandler) Add(c echo.Context) error {
	var req addFoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.foods.Add(c.Request().Context(), ports.CreateFoodInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, foodResponse{Success: true, Data: item})
}

// List returns the whole catalog.
//
// @Summary      List food items
// @Tags         food
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  foodListResponse
// @Router       /api/food/list [get]
func (h *FoodHandler) List(c echo.Context) error {
	items, err := h.foods.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodListResponse{Success: true, Data: items})
}

// Single returns one catalog entry, used by the edit form.
func (h *FoodHandler) Single(c echo.Context) error {
	item, err := h.foods.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, foodResponse{Success: true, Data: item})
}

// Update applies a partial update to a catalog entry.
func (h *FoodHandler) Update(c echo.Context) error {
	var req updateFoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.foods.Update(c.Request().Context(), c.Param("id"), ports.UpdateFoodInput{
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Category:    req.Category,
		ImageURL:    req.ImageURL,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, foodResponse{Success: true, Data: item})
}

// Remove deletes a catalog entry. The id travels in the body, matching the
// admin console's existing call shape.
func (h *FoodHandler) Remove(c echo.Context) error {
	var req removeFoodRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.foods.Remove(c.Request().Context(), req.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}
