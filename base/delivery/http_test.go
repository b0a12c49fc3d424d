package delivery

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/domain"
)

func serve(t *testing.T, status int, data interface{}) (int, JsonResponse) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	require.NoError(t, MakeJsonResp(c, status, data))

	res := JsonResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
	return rec.Code, res
}

func TestMakeJsonResp(t *testing.T) {
	code, res := serve(t, http.StatusOK, "hi")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, JsonResponseStatusSuccess, res.Status)
	require.Equal(t, "hi", res.Data)

	code, res = serve(t, http.StatusInternalServerError, xerrors.Errorf("edition 1000: %w", domain.ErrNotFound))
	require.Equal(t, http.StatusNotFound, code)
	require.Equal(t, JsonResponseStatusFail, res.Status)

	code, _ = serve(t, http.StatusInternalServerError, errors.New("boom"))
	require.Equal(t, http.StatusInternalServerError, code)
}

func TestStatusOf(t *testing.T) {
	errTeapot := errors.New("teapot")
	es := ErrStatus{{errTeapot, http.StatusTeapot}}
	require.Equal(t, http.StatusTeapot, es.StatusOf(xerrors.Errorf("wrapped: %w", errTeapot), http.StatusOK))
	require.Equal(t, http.StatusOK, es.StatusOf(errors.New("other"), http.StatusOK))
}
