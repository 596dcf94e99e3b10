package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/delivery"
	"github.com/dropstation/marketapi/domain"
	dListing "github.com/dropstation/marketapi/domain/listing"
)

type handler struct {
	listing dListing.UseCase
}

// New mounts listing routes. State-changing routes run behind the auth
// middleware so the caller identity comes from the verified token, not
// the request body.
func New(e *echo.Echo, authMiddleware echo.MiddlewareFunc, listing dListing.UseCase) {
	h := &handler{listing}

	g := e.Group("/listings")
	g.GET("", h.findAll)
	g.GET("/count", h.count)
	g.GET("/:contract/:tokenId", h.get)
	g.POST("/:contract/:tokenId/buy", h.buy, authMiddleware)
	g.POST("/:contract/:tokenId/bids", h.addBid, authMiddleware)
	g.DELETE("/:contract/:tokenId/bids/:bidder", h.cancelBid, authMiddleware)
	g.POST("/:contract/:tokenId/accept-bid", h.acceptBid, authMiddleware)
	g.DELETE("/:contract/:tokenId", h.delist, authMiddleware)

	// called by the approval relay, not by end users
	e.POST("/approvals", h.handleApproval)
}

func (h *handler) id(c echo.Context) dListing.Id {
	return dListing.Id{
		Contract: domain.Address(c.Param("contract")).ToLower(),
		TokenId:  domain.TokenId(c.Param("tokenId")),
	}
}

func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Seller   *domain.Address `query:"seller"`
		Contract *domain.Address `query:"contract"`
		Auction  *bool           `query:"auction"`
		SortBy   *string         `query:"sortBy"`
		SortDir  *int            `query:"sortDir"`
		Offset   int             `query:"offset"`
		Limit    int             `query:"limit"`
	}

	p := &params{Limit: 100}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []dListing.FindAllOptionsFunc{
		dListing.WithPagination(p.Offset, p.Limit),
	}
	if p.Seller != nil {
		opts = append(opts, dListing.WithSeller(*p.Seller))
	}
	if p.Contract != nil {
		opts = append(opts, dListing.WithContract(*p.Contract))
	}
	if p.Auction != nil {
		opts = append(opts, dListing.WithAuction(*p.Auction))
	}
	if p.SortBy != nil && p.SortDir != nil {
		opts = append(opts, dListing.WithSort(*p.SortBy, *p.SortDir))
	}

	res, err := h.listing.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) count(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Seller domain.Address `query:"seller"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil || p.Seller.IsEmpty() {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	cnt, err := h.listing.CountBySeller(ctx, p.Seller)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, cnt)
}

func (h *handler) get(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	res, err := h.listing.Get(ctx, h.id(c))
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}

func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	buyer := c.Get("address").(domain.Address)

	type params struct {
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.listing.Buy(ctx, h.id(c), buyer, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusAccepted, "ok")
}

func (h *handler) addBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	bidder := c.Get("address").(domain.Address)

	type params struct {
		Amount  string `json:"amount"`
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.listing.AddBid(ctx, h.id(c), bidder, p.Amount, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) cancelBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	bidder := domain.Address(c.Param("bidder"))
	if err := h.listing.CancelBid(ctx, h.id(c), caller, bidder, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) acceptBid(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.listing.AcceptBid(ctx, h.id(c), caller, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusAccepted, "ok")
}

func (h *handler) delist(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)
	caller := c.Get("address").(domain.Address)

	type params struct {
		Payment string `json:"payment"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.listing.Delist(ctx, h.id(c), caller, p.Payment); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}

func (h *handler) handleApproval(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	p := &dListing.ApprovalNotification{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	if err := h.listing.HandleApproval(ctx, p); err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, "ok")
}
