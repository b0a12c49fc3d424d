package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/delivery"
	"github.com/x-xyz/editionmarket/domain"
)

type authHandler struct {
	auth domain.AuthUsecase
}

func New(e *echo.Echo, auth domain.AuthUsecase) {
	handler := &authHandler{
		auth: auth,
	}
	g := e.Group("/auth")
	g.POST("/sign", handler.sign)
	g.GET("/signingMsg/:address", handler.getSigningMsg)
}

// sign exchanges a personal_sign signature of the signing message for an access token
//
//	@Summary		Get access token
//	@Description	Create access token for given address
//	@Tags			auth
//	@Accept			json
//	@Produce		json
//	@Success		201	{object}	object{data=string}
//	@Failure		400
//	@Failure		401
//	@Failure		500
//	@Router			/auth/sign [post]
func (h *authHandler) sign(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Address   domain.Address `json:"address" validate:"required,address"`
		Signature string         `json:"signature" validate:"required"`
	}

	p := &params{}

	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Error("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if tkn, err := h.auth.Login(ctx, p.Address, p.Signature); err != nil {
		if xerrors.Is(err, domain.ErrUnauthorized) {
			return delivery.MakeJsonResp(c, http.StatusUnauthorized, err)
		}
		if xerrors.Is(err, domain.ErrBadParamInput) || xerrors.Is(err, domain.ErrInvalidAddress) {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		ctx.WithField("err", err).Error("auth.Login failed")
		return delivery.MakeJsonResp(c, http.StatusInternalServerError, err)
	} else {
		return delivery.MakeJsonResp(c, http.StatusCreated, tkn)
	}
}

// getSigningMsg
//
//	@Summary		Get signing message
//	@Tags			auth
//	@Produce		json
//	@Param			address	path		string	true	"address"
//	@Success		200	{object}	object{data=string}
//	@Failure		400
//	@Router			/auth/signingMsg/{address} [get]
func (h *authHandler) getSigningMsg(c echo.Context) error {
	address := domain.Address(c.Param("address"))
	res := struct {
		Msg string `json:"msg"`
	}{
		Msg: h.auth.SigningMessage(address),
	}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
