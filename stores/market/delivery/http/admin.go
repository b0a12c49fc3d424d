package http

import (
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/delivery"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/market"
)

func (h *handler) pause(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	if err := h.market.Pause(ctx, caller(c)); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) unpause(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	if err := h.market.Unpause(ctx, caller(c)); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// updateParams replaces the fields present in the body and keeps the others
func (h *handler) updateParams(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		MinBidAmount                       string         `json:"minBidAmount"`
		MinIncrement                       string         `json:"minIncrement"`
		BidLockupPeriod                    string         `json:"bidLockupPeriod"`
		ReserveAuctionBidExtensionWindow   string         `json:"reserveAuctionBidExtensionWindow"`
		ReserveAuctionLengthOnceReserveMet string         `json:"reserveAuctionLengthOnceReserveMet"`
		MaxBidExtensions                   *uint32        `json:"maxBidExtensions"`
		PlatformAccount                    domain.Address `json:"platformAccount" validate:"omitempty,address"`
		PrimaryCommission                  string         `json:"primaryCommission"`
		SecondaryCommission                string         `json:"secondaryCommission"`
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	next := h.market.Params(ctx)

	var err error
	setEther := func(s string, dst **big.Int) {
		if err != nil || s == "" {
			return
		}
		*dst, err = domain.ParseEther(s)
	}
	setDuration := func(s string, dst *time.Duration) {
		if err != nil || s == "" {
			return
		}
		if *dst, err = time.ParseDuration(s); err != nil {
			err = xerrors.Errorf("duration %s: %w", s, domain.ErrBadParamInput)
		}
	}
	setRate := func(s string, dst *market.Rate) {
		if err != nil || s == "" {
			return
		}
		*dst, err = market.ParsePercent(s)
	}

	setEther(p.MinBidAmount, &next.MinBidAmount)
	setEther(p.MinIncrement, &next.MinIncrement)
	setDuration(p.BidLockupPeriod, &next.BidLockupPeriod)
	setDuration(p.ReserveAuctionBidExtensionWindow, &next.ReserveAuctionBidExtensionWindow)
	setDuration(p.ReserveAuctionLengthOnceReserveMet, &next.ReserveAuctionLengthOnceReserveMet)
	setRate(p.PrimaryCommission, &next.PrimaryCommission)
	setRate(p.SecondaryCommission, &next.SecondaryCommission)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if p.MaxBidExtensions != nil {
		next.MaxBidExtensions = *p.MaxBidExtensions
	}
	if p.PlatformAccount != "" {
		next.PlatformAccount = p.PlatformAccount.ToLower()
	}

	if err := h.market.UpdateParams(ctx, caller(c), next); err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toParamsView(h.market.Params(ctx), h.market.Paused(ctx)))
}

func (h *handler) adminRejectBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.market.AdminRejectBid(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) emergencyExitBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.market.EmergencyExitBid(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type rateParams struct {
	Percent string `json:"percent" validate:"required"`
}

func bindRate(c echo.Context) (market.Rate, error) {
	p := &rateParams{}
	if err := c.Bind(p); err != nil {
		return 0, xerrors.Errorf("bind: %v: %w", err, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return 0, xerrors.Errorf("validate: %v: %w", err, domain.ErrBadParamInput)
	}
	return market.ParsePercent(p.Percent)
}

func (h *handler) setReceiverOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	rate, err := bindRate(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	receiver := domain.Address(c.Param("address")).ToLower()
	if err := h.market.SetReceiverCommissionOverride(ctx, caller(c), receiver, rate); err != nil {
		return respond(c, err)
	}
	return h.getReceiverOverride(c)
}

func (h *handler) clearReceiverOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	receiver := domain.Address(c.Param("address")).ToLower()
	if err := h.market.ClearReceiverCommissionOverride(ctx, caller(c), receiver); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) setEditionOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	editionId, err := parseId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	rate, err := bindRate(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.market.SetEditionCommissionOverride(ctx, caller(c), editionId, rate); err != nil {
		return respond(c, err)
	}
	return h.getEditionOverride(c)
}

func (h *handler) clearEditionOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	editionId, err := parseId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := h.market.ClearEditionCommissionOverride(ctx, caller(c), editionId); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) getReceiverOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	o, err := h.market.GetReceiverCommissionOverride(ctx, domain.Address(c.Param("address")).ToLower())
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toOverrideView(o))
}

func (h *handler) getEditionOverride(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	editionId, err := parseId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	o, err := h.market.GetEditionCommissionOverride(ctx, editionId)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toOverrideView(o))
}

func (h *handler) resolveCommission(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Receiver string `query:"receiver"`
		Edition  string `query:"edition"`
		Primary  bool   `query:"primary"`
	}

	p := &params{}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}
	receiver, err := domain.NormalizeAddress(p.Receiver)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	editionId, err := parseId(p.Edition)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	rate, err := h.market.ResolveCommissionRate(ctx, receiver, editionId, p.Primary)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toOverrideView(&market.Override{Active: true, Rate: rate}))
}
