package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/delivery"
	"github.com/dropstation/marketapi/domain"
	dMarketplace "github.com/dropstation/marketapi/domain/marketplace"
)

type handler struct {
	marketplace dMarketplace.UseCase
}

func New(e *echo.Echo, authMiddleware echo.MiddlewareFunc, marketplace dMarketplace.UseCase) {
	h := &handler{marketplace}

	g := e.Group("/marketplace")
	g.GET("/config", h.getConfig)
	g.PATCH("/config/treasury", h.setTreasury, authMiddleware)
	g.PATCH("/config/fee", h.setFee, authMiddleware)
	g.PATCH("/config/owner", h.transferOwnership, authMiddleware)
	g.POST("/config/approved-contracts", h.addApprovedContracts, authMiddleware)
	g.DELETE("/config/approved-contracts", h.removeApprovedContracts, authMiddleware)
}

func (h *handler) getConfig(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	cfg, err := h.marketplace.GetConfig(ctx)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cfg)
}

func (h *handler) setTreasury(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Treasury domain.Address `json:"treasury"`
		Payment  string         `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.marketplace.SetTreasury(ctx, caller, p.Treasury, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) setFee(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		FeeBps  uint16 `json:"feeBps"`
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.marketplace.SetFee(ctx, caller, p.FeeBps, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) transferOwnership(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Owner   domain.Address `json:"owner"`
		Payment string         `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.marketplace.TransferOwnership(ctx, caller, p.Owner, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) addApprovedContracts(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Contracts []domain.Address `json:"contracts"`
		Payment   string           `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.marketplace.AddApprovedContracts(ctx, caller, p.Contracts, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) removeApprovedContracts(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Contracts []domain.Address `json:"contracts"`
		Payment   string           `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.marketplace.RemoveApprovedContracts(ctx, caller, p.Contracts, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
