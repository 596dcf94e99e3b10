package domain

import (
	"github.com/golang-jwt/jwt"

	bCtx "github.com/dropstation/marketapi/base/ctx"
)

type JwtCustomClaims struct {
	Address Address `json:"address"`
	jwt.StandardClaims
}

type AuthUsecase interface {
	Login(c bCtx.Ctx, address Address, signature string) (token string, err error)
	ParseToken(c bCtx.Ctx, token string) (Address, error)
}
