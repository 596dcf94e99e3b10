package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dropstation/marketapi/domain"
)

type JsonResponse struct {
	Data   interface{} `json:"data"`
	Status int         `json:"status"`
}

func MakeJsonResp(c echo.Context, httpStatusCode int, data interface{}) error {
	if err, ok := data.(error); ok {
		data = err.Error()
	}
	return c.JSON(httpStatusCode, JsonResponse{
		Data:   data,
		Status: httpStatusCode,
	})
}

// MakeErrorResp maps a domain error onto its http status.
func MakeErrorResp(c echo.Context, err error) error {
	return MakeJsonResp(c, GetStatusCode(err), err)
}

func GetStatusCode(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch err {
	case domain.ErrInternalServerError:
		return http.StatusInternalServerError
	case domain.ErrNotFound, domain.ErrNoBids:
		return http.StatusNotFound
	case domain.ErrConflict:
		return http.StatusConflict
	case domain.ErrUnauthorized, domain.ErrOwnSale, domain.ErrSelfCall, domain.ErrOwnerMismatch:
		return http.StatusForbidden
	case domain.ErrExactPaymentRequired, domain.ErrInsufficientPayment, domain.ErrPaymentMismatch:
		return http.StatusPaymentRequired
	case domain.ErrBadParamInput, domain.ErrInvalidNumberFormat, domain.ErrInvalidAddress,
		domain.ErrInvalidSignature, domain.ErrSaleNotStarted, domain.ErrSaleEnded,
		domain.ErrAuctionNotEnded, domain.ErrBidTooLow, domain.ErrDutchAuction,
		domain.ErrContractNotApproved, domain.ErrEndTimeRequired, domain.ErrInvalidEndPrice,
		domain.ErrInvalidSaleWindow, domain.ErrPriceRequired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
