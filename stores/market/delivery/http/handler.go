package http

import (
	"math/big"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/base/delivery"
	"github.com/x-xyz/editionmarket/base/log"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/domain/activity"
	"github.com/x-xyz/editionmarket/domain/market"
	"github.com/x-xyz/editionmarket/middleware"
	authMiddleware "github.com/x-xyz/editionmarket/stores/auth/delivery/http/middleware"
)

var errStatus = delivery.ErrStatus{
	{market.ErrNotSeller, http.StatusForbidden},
	{market.ErrNotAdmin, http.StatusForbidden},
	{market.ErrNotBidder, http.StatusForbidden},
	{market.ErrNotAuthorized, http.StatusForbidden},
	{market.ErrNotOwner, http.StatusForbidden},
	{market.ErrNoOpenBid, http.StatusNotFound},
	{market.ErrNoListingFound, http.StatusNotFound},
	{market.ErrBidTooLow, http.StatusBadRequest},
	{market.ErrInsufficientPayment, http.StatusBadRequest},
	{market.ErrInvalidParam, http.StatusBadRequest},
	{market.ErrOfferPriceChanged, http.StatusPreconditionFailed},
	{market.ErrPaused, http.StatusServiceUnavailable},
	{market.ErrOwnerMismatch, http.StatusConflict},
	{market.ErrReserveMet, http.StatusConflict},
	{market.ErrReserveNotMet, http.StatusConflict},
	{market.ErrAuctionInFlight, http.StatusConflict},
	{market.ErrAuctionNotEnded, http.StatusConflict},
	{market.ErrNotSingleton, http.StatusConflict},
	{market.ErrBiddingClosed, http.StatusConflict},
	{market.ErrBiddingNotStarted, http.StatusConflict},
	{market.ErrTokenIsListed, http.StatusConflict},
	{market.ErrMarketplaceNotApproved, http.StatusConflict},
	{market.ErrListingStillValid, http.StatusConflict},
	{market.ErrLockupNotElapsed, http.StatusConflict},
	{market.ErrPrimaryMarketExhausted, http.StatusConflict},
}

type handler struct {
	market   market.UseCase
	activity activity.UseCase
}

type HandlerCfg struct {
	Market         market.UseCase
	Activity       activity.UseCase
	AuthMiddleware *authMiddleware.AuthMiddleware
	// optional, wraps the activity queries
	ActivityCache echo.MiddlewareFunc
}

func New(e *echo.Echo, cfg *HandlerCfg) {
	h := &handler{cfg.Market, cfg.Activity}
	auth := cfg.AuthMiddleware

	e.GET("/params", h.getParams)

	g := e.Group("/market/:scope/:id")

	g.GET("/listing", h.getListing)
	g.POST("/listing", h.list, auth.Auth())
	g.DELETE("/listing", h.clearListing, auth.Auth())
	g.POST("/convert", h.convert, auth.Auth())

	g.POST("/bid", h.placeBid, auth.Auth())
	g.DELETE("/bid", h.withdrawBid, auth.Auth())
	g.POST("/result", h.result, auth.Auth())

	g.GET("/offer", h.getOffer)
	g.POST("/offer", h.placeOffer, auth.Auth())
	g.DELETE("/offer", h.withdrawOffer, auth.Auth())
	g.POST("/offer/reject", h.rejectOffer, auth.Auth())
	g.POST("/offer/accept", h.acceptOffer, auth.Auth())

	g.POST("/buy", h.buy, auth.Auth())

	e.POST("/editions/:id/offer/accept/:tokenId", h.acceptEditionOfferForToken, auth.Auth())

	gc := e.Group("/commission")
	gc.GET("/receiver/:address", h.getReceiverOverride, middleware.IsValidAddress("address"))
	gc.GET("/edition/:id", h.getEditionOverride)
	gc.GET("/resolve", h.resolveCommission)

	if h.activity != nil {
		if cfg.ActivityCache != nil {
			e.GET("/activities", h.getActivities, cfg.ActivityCache)
		} else {
			e.GET("/activities", h.getActivities)
		}
	}

	ga := e.Group("/admin", auth.Auth(), auth.IsAdmin())
	ga.POST("/pause", h.pause)
	ga.POST("/unpause", h.unpause)
	ga.PUT("/params", h.updateParams)
	ga.POST("/market/:scope/:id/reject", h.adminRejectBid)
	ga.POST("/market/:scope/:id/emergency-exit", h.emergencyExitBid)
	ga.PUT("/commission/receiver/:address", h.setReceiverOverride, middleware.IsValidAddress("address"))
	ga.DELETE("/commission/receiver/:address", h.clearReceiverOverride, middleware.IsValidAddress("address"))
	ga.PUT("/commission/edition/:id", h.setEditionOverride)
	ga.DELETE("/commission/edition/:id", h.clearEditionOverride)
}

// respond answers with the status of the first sentinel err wraps. Guard errors were
// already logged by the engine.
func respond(c echo.Context, err error) error {
	return delivery.MakeJsonResp(c, errStatus.StatusOf(err, http.StatusInternalServerError), err)
}

func caller(c echo.Context) domain.Address {
	addr, _ := c.Get(authMiddleware.AddressKey).(domain.Address)
	return addr
}

func parseKey(c echo.Context) (market.Key, error) {
	scope, ok := market.ToScope(c.Param("scope"))
	if !ok {
		return market.Key{}, xerrors.Errorf("scope %s: %w", c.Param("scope"), domain.ErrBadParamInput)
	}
	key := market.Key{Scope: scope, Id: c.Param("id")}
	if !key.Valid() {
		return market.Key{}, xerrors.Errorf("key %s: %w", key, domain.ErrBadParamInput)
	}
	return key, nil
}

func parseId(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, xerrors.Errorf("id %s: %w", s, domain.ErrBadParamInput)
	}
	return v, nil
}

func requireEther(name, s string) (*big.Int, error) {
	if s == "" {
		return nil, xerrors.Errorf("%s missing: %w", name, domain.ErrBadParamInput)
	}
	return domain.ParseEther(s)
}

// getParams
//
//	@Summary		Get market params
//	@Tags			market
//	@Produce		json
//	@Success		200	{object}	object{data=http.paramsView}
//	@Router			/params [get]
func (h *handler) getParams(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	return delivery.MakeJsonResp(c, http.StatusOK, toParamsView(h.market.Params(ctx), h.market.Paused(ctx)))
}

// getListing
//
//	@Summary		Get listing
//	@Tags			market
//	@Produce		json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Success		200	{object}	object{data=http.listingView}
//	@Failure		400
//	@Failure		404
//	@Router			/market/{scope}/{id}/listing [get]
func (h *handler) getListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.market.GetListing(ctx, key)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toListingView(l))
}

// list
//
//	@Summary		List for sale
//	@Description	Create a buy now, reserve auction or stepped listing
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Success		201	{object}	object{data=http.listingView}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/listing [post]
func (h *handler) list(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Mode         market.Mode `json:"mode" validate:"required"`
		Price        string      `json:"price"`
		ReservePrice string      `json:"reservePrice"`
		BasePrice    string      `json:"basePrice"`
		StepPrice    string      `json:"stepPrice"`
		StartTime    time.Time   `json:"startTime"`
	}

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Info("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.listByMode(ctx, caller(c), key, p.Mode, p.Price, p.ReservePrice, p.BasePrice, p.StepPrice, p.StartTime); err != nil {
		return respond(c, err)
	}

	return h.respondListing(c, key, http.StatusCreated)
}

func (h *handler) listByMode(ctx ctx.Ctx, seller domain.Address, key market.Key, mode market.Mode, price, reserve, base, step string, start time.Time) error {
	switch mode {
	case market.ModeBuyNow:
		p, err := requireEther("price", price)
		if err != nil {
			return err
		}
		return h.market.ListBuyNow(ctx, seller, key, p, start)
	case market.ModeReserveAuction:
		r, err := requireEther("reservePrice", reserve)
		if err != nil {
			return err
		}
		return h.market.ListReserveAuction(ctx, seller, key, r, start)
	case market.ModeStepped:
		b, err := requireEther("basePrice", base)
		if err != nil {
			return err
		}
		st, err := requireEther("stepPrice", step)
		if err != nil {
			return err
		}
		return h.market.ListStepped(ctx, seller, key, b, st, start)
	case market.ModeOffers:
		return h.market.ListOffers(ctx, seller, key, start)
	}
	return xerrors.Errorf("mode %s: %w", mode, domain.ErrBadParamInput)
}

func (h *handler) respondListing(c echo.Context, key market.Key, status int) error {
	ctx := c.Get("ctx").(ctx.Ctx)
	l, err := h.market.GetListing(ctx, key)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, status, toListingView(l))
}

func (h *handler) clearListing(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.ClearListing(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// convert
//
//	@Summary		Convert listing
//	@Description	Switch a listing to another sale mode
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Success		200	{object}	object{data=http.listingView}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/convert [post]
func (h *handler) convert(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		To        market.Mode `json:"to" validate:"required"`
		Price     string      `json:"price"`
		StartTime time.Time   `json:"startTime"`
	}

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	p := &params{}
	if err := c.Bind(p); err != nil {
		ctx.WithField("err", err).Info("bind failed")
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	if err := c.Validate(p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.market.GetListing(ctx, key)
	if err != nil {
		return respond(c, err)
	}

	seller := caller(c)

	switch p.To {
	case market.ModeBuyNow:
		price, err := requireEther("price", p.Price)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		switch l.Mode {
		case market.ModeOffers:
			err = h.market.ConvertOffersToBuyNow(ctx, seller, key, price, p.StartTime)
		case market.ModeReserveAuction:
			err = h.market.ConvertReserveAuctionToBuyNow(ctx, seller, key, price, p.StartTime)
		case market.ModeStepped:
			err = h.market.ConvertSteppedToBuyNow(ctx, seller, key, price, p.StartTime)
		default:
			err = xerrors.Errorf("%s to %s: %w", l.Mode, p.To, market.ErrNoListingFound)
		}
		if err != nil {
			return respond(c, err)
		}
	case market.ModeOffers:
		switch l.Mode {
		case market.ModeBuyNow:
			err = h.market.ConvertBuyNowToOffers(ctx, seller, key, p.StartTime)
		case market.ModeReserveAuction:
			err = h.market.ConvertReserveAuctionToOffers(ctx, seller, key, p.StartTime)
		case market.ModeStepped:
			err = h.market.ConvertSteppedToOffers(ctx, seller, key, p.StartTime)
		default:
			err = xerrors.Errorf("%s to %s: %w", l.Mode, p.To, market.ErrNoListingFound)
		}
		if err != nil {
			return respond(c, err)
		}
	default:
		return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("convert to %s: %w", p.To, domain.ErrBadParamInput))
	}

	return h.respondListing(c, key, http.StatusOK)
}

type amountParams struct {
	Amount string `json:"amount" validate:"required"`
}

// bindAmount reads {"amount": "<ether>"}
func bindAmount(c echo.Context) (*big.Int, error) {
	p := &amountParams{}
	if err := c.Bind(p); err != nil {
		return nil, xerrors.Errorf("bind: %v: %w", err, domain.ErrBadParamInput)
	}
	if err := c.Validate(p); err != nil {
		return nil, xerrors.Errorf("validate: %v: %w", err, domain.ErrBadParamInput)
	}
	return domain.ParseEther(p.Amount)
}

// placeBid
//
//	@Summary		Place reserve auction bid
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Param			params	body		http.amountParams	true	"amount in ether"
//	@Success		201	{object}	object{data=http.listingView}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/bid [post]
func (h *handler) placeBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.PlaceReserveBid(ctx, caller(c), key, amount); err != nil {
		return respond(c, err)
	}
	return h.respondListing(c, key, http.StatusCreated)
}

func (h *handler) withdrawBid(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.WithdrawReserveBid(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) result(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.ResultReserveAuction(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) getOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	o, err := h.market.GetOffer(ctx, key)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusOK, toOfferView(o, h.market.Params(ctx).BidLockupPeriod))
}

// placeOffer
//
//	@Summary		Place offer
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Produce		json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Param			params	body		http.amountParams	true	"amount in ether"
//	@Success		201	{object}	object{data=http.offerView}
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/offer [post]
func (h *handler) placeOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	amount, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.PlaceOffer(ctx, caller(c), key, amount); err != nil {
		return respond(c, err)
	}

	o, err := h.market.GetOffer(ctx, key)
	if err != nil {
		return respond(c, err)
	}
	return delivery.MakeJsonResp(c, http.StatusCreated, toOfferView(o, h.market.Params(ctx).BidLockupPeriod))
}

func (h *handler) withdrawOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.WithdrawOffer(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *handler) rejectOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.RejectOffer(ctx, caller(c), key); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// acceptOffer
//
//	@Summary		Accept offer
//	@Description	Sell to the current offer, the body carries the amount the seller expects
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Param			params	body		http.amountParams	true	"amount in ether"
//	@Success		204
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/offer/accept [post]
func (h *handler) acceptOffer(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	expected, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.AcceptOffer(ctx, caller(c), key, expected); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// acceptEditionOfferForToken
//
//	@Summary		Accept edition offer with a token
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Param			id		path		string	true	"edition id"
//	@Param			tokenId	path		string	true	"token id"
//	@Param			params	body		http.amountParams	true	"amount in ether"
//	@Success		204
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/editions/{id}/offer/accept/{tokenId} [post]
func (h *handler) acceptEditionOfferForToken(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	editionId, err := parseId(c.Param("id"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	tokenId, err := parseId(c.Param("tokenId"))
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	expected, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	if err := h.market.AcceptEditionOfferForToken(ctx, caller(c), editionId, tokenId, expected); err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// buy pays a buy now price or the next step of a stepped listing
//
//	@Summary		Buy
//	@Tags			market
//	@Security		ApiKeyAuth
//	@Accept			json
//	@Param			scope	path		string	true	"token or edition"
//	@Param			id		path		string	true	"token or edition id"
//	@Param			params	body		http.amountParams	true	"payment in ether"
//	@Success		204
//	@Failure		400
//	@Failure		401
//	@Failure		403
//	@Failure		409
//	@Failure		500
//	@Router			/market/{scope}/{id}/buy [post]
func (h *handler) buy(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	key, err := parseKey(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}
	payment, err := bindAmount(c)
	if err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
	}

	l, err := h.market.GetListing(ctx, key)
	if err != nil {
		return respond(c, err)
	}

	if l.Mode == market.ModeStepped {
		err = h.market.BuyNextStep(ctx, caller(c), key, payment)
	} else {
		err = h.market.BuyNow(ctx, caller(c), key, payment)
	}
	if err != nil {
		return respond(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// getActivities
//
//	@Summary		Get activities
//	@Tags			activity
//	@Produce		json
//	@Param			type		query		[]string	false	"event types"
//	@Param			scope		query		string		false	"token or edition"
//	@Param			id			query		string		false	"token or edition id"
//	@Param			tokenId		query		string		false	"token id"
//	@Param			account		query		string		false	"account"
//	@Param			offset		query		int			false	"offset"
//	@Param			limit		query		int			false	"limit"
//	@Success		200	{object}	object{data=[]activity.Activity}
//	@Failure		400
//	@Failure		500
//	@Router			/activities [get]
func (h *handler) getActivities(c echo.Context) error {
	ctx := c.Get("ctx").(ctx.Ctx)

	type params struct {
		Types   []string `query:"type"`
		Scope   string   `query:"scope"`
		Id      string   `query:"id"`
		TokenId string   `query:"tokenId"`
		Account string   `query:"account"`
		Offset  int      `query:"offset"`
		Limit   int      `query:"limit"`
	}

	p := &params{}
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, p); err != nil {
		return delivery.MakeJsonResp(c, http.StatusBadRequest, "invalid params")
	}

	opts := []activity.FindAllOptionsFunc{}
	if len(p.Types) > 0 {
		types := make([]market.EventType, 0, len(p.Types))
		for _, t := range p.Types {
			types = append(types, market.EventType(t))
		}
		opts = append(opts, activity.WithTypes(types...))
	}
	if p.Scope != "" || p.Id != "" {
		scope, ok := market.ToScope(p.Scope)
		key := market.Key{Scope: scope, Id: p.Id}
		if !ok || !key.Valid() {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, xerrors.Errorf("key %s: %w", key, domain.ErrBadParamInput))
		}
		opts = append(opts, activity.WithKey(key))
	}
	if p.TokenId != "" {
		opts = append(opts, activity.WithTokenId(p.TokenId))
	}
	if p.Account != "" {
		addr, err := domain.NormalizeAddress(p.Account)
		if err != nil {
			return delivery.MakeJsonResp(c, http.StatusBadRequest, err)
		}
		opts = append(opts, activity.WithAccount(addr))
	}
	if p.Limit == 0 {
		p.Limit = 50
	}
	opts = append(opts, activity.WithPagination(p.Offset, p.Limit))

	items, err := h.activity.FindAll(ctx, opts...)
	if err != nil {
		return respond(c, err)
	}
	count, err := h.activity.Count(ctx, opts...)
	if err != nil {
		ctx.WithFields(log.Fields{"err": err}).Error("activity.Count failed")
		return respond(c, err)
	}

	res := struct {
		Items []*activity.Activity `json:"items"`
		Count int                  `json:"count"`
	}{items, count}
	return delivery.MakeJsonResp(c, http.StatusOK, res)
}
