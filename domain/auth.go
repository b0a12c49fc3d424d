package domain

import (
	"github.com/golang-jwt/jwt"

	"github.com/x-xyz/editionmarket/base/ctx"
)

type JwtCustomClaims struct {
	Address string `json:"data"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	SignToken(ctx ctx.Ctx, address Address) (string, error)
	ParseToken(ctx ctx.Ctx, token string) (address Address, err error)
	// SigningMessage is what address signs with personal_sign to log in
	SigningMessage(address Address) string
	// Login checks signature against SigningMessage and signs a token
	Login(ctx ctx.Ctx, address Address, signature string) (string, error)
}
