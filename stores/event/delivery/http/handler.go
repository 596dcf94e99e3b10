package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	bCtx "github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/base/delivery"
	"github.com/dropstation/marketapi/domain"
)

type handler struct {
	event domain.EventUseCase
}

// New mounts the market activity feed route.
func New(e *echo.Echo, event domain.EventUseCase) {
	h := &handler{event}

	g := e.Group("/events")
	g.GET("", h.findAll)
}

func (h *handler) findAll(c echo.Context) error {
	ctx := c.Get("ctx").(bCtx.Ctx)

	type params struct {
		Type   *domain.EventType `query:"type"`
		Offset int               `query:"offset"`
		Limit  int               `query:"limit"`
	}

	p := &params{Limit: 100}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []domain.EventFindAllOptionsFunc{
		domain.EventWithPagination(p.Offset, p.Limit),
	}
	if p.Type != nil {
		opts = append(opts, domain.EventWithType(*p.Type))
	}

	res, err := h.event.FindAll(ctx, opts...)
	if err != nil {
		return delivery.MakeErrorResp(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
