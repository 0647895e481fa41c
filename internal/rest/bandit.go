package rest

import (
	"context"
	"net/http"

	"banditHub/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	DecisionHandler struct {
		validate        *validator.Validate
		decisionService DecisionService
	}

	DecisionService interface {
		Decide(ctx context.Context, banditKey string, reqCtx map[string]any) (domain.Decision, error)
		Feedback(ctx context.Context, token, eventType string, value float64, reqCtx map[string]any) error
		ListArms(ctx context.Context, banditKey string) ([]domain.ArmView, error)
	}

	DecideQuery struct {
		Bandit   string `query:"bandit" validate:"required"`
		Platform string `query:"platform"`
	}

	FeedbackRequest struct {
		Token     string  `json:"token" validate:"required"`
		EventType string  `json:"event_type" validate:"required,oneof=impression click convert"`
		Value     float64 `json:"value"`
		Platform  string  `json:"platform"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewDecisionHandler(svc DecisionService) *DecisionHandler {
	return &DecisionHandler{
		validate:        validator.New(),
		decisionService: svc,
	}
}

// GET /api/v1/decisions?bandit=checkout_banner&platform=web
func (h *DecisionHandler) Decide(c echo.Context) error {
	var q DecideQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	reqCtx := map[string]any{}
	if q.Platform != "" {
		reqCtx["platform"] = q.Platform
	}

	decision, err := h.decisionService.Decide(c.Request().Context(), q.Bandit, reqCtx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(decision))
}

// POST /api/v1/decisions/feedback
func (h *DecisionHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	reqCtx := map[string]any{}
	if req.Platform != "" {
		reqCtx["platform"] = req.Platform
	}

	err := h.decisionService.Feedback(c.Request().Context(), req.Token, req.EventType, req.Value, reqCtx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("feedback recorded"))
}

// GET /api/v1/decisions/arms?bandit=checkout_banner
func (h *DecisionHandler) ListArms(c echo.Context) error {
	var q DecideQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	arms, err := h.decisionService.ListArms(c.Request().Context(), q.Bandit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(arms))
}
