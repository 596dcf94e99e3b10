package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/delivery"
	"github.com/dropstation/marketapi/domain"
	dDeposit "github.com/dropstation/marketapi/domain/deposit"
)

type handler struct {
	deposit dDeposit.UseCase
}

func New(e *echo.Echo, authMiddleware echo.MiddlewareFunc, deposit dDeposit.UseCase) {
	h := &handler{deposit}

	g := e.Group("/storage")
	g.GET("/minimum-balance", h.minimumBalance)
	g.GET("/balance", h.balance, authMiddleware)
	g.POST("/deposit", h.makeDeposit, authMiddleware)
	g.POST("/withdraw", h.withdraw, authMiddleware)
}

func (h *handler) minimumBalance(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, h.deposit.MinimumBalance(ctx))
}

func (h *handler) balance(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	account := c.Get("address").(domain.Address)

	balance, err := h.deposit.BalanceOf(ctx, account)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, balance)
}

func (h *handler) makeDeposit(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	payer := c.Get("address").(domain.Address)

	type params struct {
		Beneficiary domain.Address `json:"beneficiary"`
		Payment     string         `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.deposit.Deposit(ctx, payer, p.Beneficiary, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) withdraw(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	account := c.Get("address").(domain.Address)

	type params struct {
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	refund, err := h.deposit.Withdraw(ctx, account, p.Payment)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, refund)
}
