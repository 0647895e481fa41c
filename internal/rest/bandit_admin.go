package rest

import (
	"context"
	"net/http"

	"banditHub/business/bandit"
	"banditHub/domain"

	"github.com/labstack/echo/v4"
)

type AdminService interface {
	UpsertDefinition(ctx context.Context, banditKey string, def *bandit.Snapshot) error
	GetDefinition(ctx context.Context, banditKey string) (*bandit.Snapshot, error)
}

type BanditAdminHandler struct {
	cfgRepo      bandit.ConfigRepository
	adminService AdminService
}

func NewBanditAdminHandler(cfgRepo bandit.ConfigRepository, adminService AdminService) *BanditAdminHandler {
	return &BanditAdminHandler{
		cfgRepo:      cfgRepo,
		adminService: adminService,
	}
}

// GET /api/v1/admin/bandits/config?bandit=checkout_banner
func (h *BanditAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()
	banditKey := c.QueryParam("bandit")

	if banditKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "bandit is required",
		})
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, banditKey)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/bandits/config
// body: BanditConfig JSON
func (h *BanditAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.BanditConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if body.BanditKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "bandit_key is required",
		})
	}

	if err := h.cfgRepo.UpsertConfig(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// GET /api/v1/admin/bandits/definition?bandit=checkout_banner
func (h *BanditAdminHandler) GetDefinition(c echo.Context) error {
	ctx := c.Request().Context()
	banditKey := c.QueryParam("bandit")
	if banditKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "bandit is required",
		})
	}

	def, err := h.adminService.GetDefinition(ctx, banditKey)
	if err != nil {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, def)
}

// PUT /api/v1/admin/bandits/definition?bandit=checkout_banner
// body: Snapshot JSON (policy, seed, arms)
func (h *BanditAdminHandler) UpsertDefinition(c echo.Context) error {
	ctx := c.Request().Context()
	banditKey := c.QueryParam("bandit")
	if banditKey == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "bandit is required",
		})
	}

	var body bandit.Snapshot
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}

	if err := h.adminService.UpsertDefinition(ctx, banditKey, &body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}
