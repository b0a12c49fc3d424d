package usecase_test

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	"github.com/x-xyz/editionmarket/base/ctx"
	"github.com/x-xyz/editionmarket/domain"
	"github.com/x-xyz/editionmarket/stores/auth/usecase"
)

const addr = "0x939ae6A4C8dfDBB1f7085189574F0A938013952A"

func TestSignAndParseToken(t *testing.T) {
	ctx := ctx.Background()
	u := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "jwt-secret"})
	tkn, err := u.SignToken(ctx, addr)
	assert.NoError(t, err)
	assert.NotEmpty(t, tkn)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.Equal(t, domain.Address("0x939ae6a4c8dfdbb1f7085189574f0a938013952a"), ads)
}

func TestSignInvalidAddress(t *testing.T) {
	u := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "jwt-secret"})
	_, err := u.SignToken(ctx.Background(), "my-address")
	assert.True(t, xerrors.Is(err, domain.ErrInvalidAddress))
}

func TestParseTokenWrongSecret(t *testing.T) {
	ctx := ctx.Background()
	tkn, err := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "a"}).SignToken(ctx, addr)
	assert.NoError(t, err)

	_, err = usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "b"}).ParseToken(ctx, tkn)
	assert.Error(t, err)
}

func TestParseTokenExpired(t *testing.T) {
	ctx := ctx.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cfg := &usecase.AuthUseCaseCfg{
		JwtSecret: "jwt-secret",
		TokenTTL:  time.Hour,
		Now:       func() time.Time { return now },
	}
	u := usecase.New(cfg)
	tkn, err := u.SignToken(ctx, addr)
	assert.NoError(t, err)

	now = now.Add(59 * time.Minute)
	_, err = u.ParseToken(ctx, tkn)
	assert.NoError(t, err)

	now = now.Add(2 * time.Minute)
	_, err = u.ParseToken(ctx, tkn)
	assert.True(t, xerrors.Is(err, domain.ErrUnauthorized))
}

func TestLogin(t *testing.T) {
	ctx := ctx.Background()
	key, err := crypto.GenerateKey()
	assert.NoError(t, err)
	signer := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex())

	u := usecase.New(&usecase.AuthUseCaseCfg{JwtSecret: "jwt-secret", SigningMsgTemplate: "login %s"})
	msg := u.SigningMessage(signer)
	assert.Equal(t, "login "+signer.ToLowerStr(), msg)

	sig, err := crypto.Sign(usecase.TextHash([]byte(msg)), key)
	assert.NoError(t, err)
	sig[crypto.RecoveryIDOffset] += 27

	tkn, err := u.Login(ctx, signer, hexutil.Encode(sig))
	assert.NoError(t, err)
	ads, err := u.ParseToken(ctx, tkn)
	assert.NoError(t, err)
	assert.True(t, signer.Equals(ads))

	_, err = u.Login(ctx, addr, hexutil.Encode(sig))
	assert.True(t, xerrors.Is(err, domain.ErrUnauthorized))

	_, err = u.Login(ctx, signer, "0x1234")
	assert.True(t, xerrors.Is(err, domain.ErrBadParamInput))
}
