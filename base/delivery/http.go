package delivery

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/service/query"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// ErrStatus maps sentinel errors to the status code they are answered with
type ErrStatus []struct {
	Err    error
	Status int
}

var common = ErrStatus{
	{domain.ErrNotFound, http.StatusNotFound},
	{query.ErrNotFound, http.StatusNotFound},
	{domain.ErrBadParamInput, http.StatusBadRequest},
	{domain.ErrInvalidAddress, http.StatusBadRequest},
	{domain.ErrInvalidNumberFormat, http.StatusBadRequest},
	{domain.ErrUnauthorized, http.StatusUnauthorized},
}

// StatusOf returns the status of the first sentinel err wraps, def otherwise
func (es ErrStatus) StatusOf(err error, def int) int {
	for _, e := range es {
		if xerrors.Is(err, e.Err) {
			return e.Status
		}
	}
	return def
}

func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		status = common.StatusOf(err, status)
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}
