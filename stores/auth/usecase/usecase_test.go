package usecase_test

import (
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/dropstation/marketapi/base/ctx"
	"github.com/dropstation/marketapi/domain"
	"github.com/dropstation/marketapi/stores/auth/usecase"
)

const template = "Sign this message to enter the market: %s"

func TestLoginAndParseToken(t *testing.T) {
	req := require.New(t)

	key, err := crypto.GenerateKey()
	req.NoError(err)
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()).ToLower()

	msg := fmt.Sprintf(template, address)
	sig, err := crypto.Sign(accounts.TextHash([]byte(msg)), key)
	req.NoError(err)
	sig[crypto.RecoveryIDOffset] += 27
	sigHex := fmt.Sprintf("0x%x", sig)

	c := ctx.Background()
	u := usecase.New("jwt-secret", template)

	tkn, err := u.Login(c, address, sigHex)
	req.NoError(err)
	req.NotEmpty(tkn)

	parsed, err := u.ParseToken(c, tkn)
	req.NoError(err)
	req.Equal(address, parsed)
}

func TestLoginRejectsBadInputs(t *testing.T) {
	req := require.New(t)

	c := ctx.Background()
	u := usecase.New("jwt-secret", template)

	_, err := u.Login(c, "not-an-address", "0x00")
	req.ErrorIs(err, domain.ErrInvalidAddress)

	key, _ := crypto.GenerateKey()
	address := domain.Address(crypto.PubkeyToAddress(key.PublicKey).Hex()).ToLower()
	_, err = u.Login(c, address, "0xdeadbeef")
	req.ErrorIs(err, domain.ErrInvalidSignature)

	// signature from another key
	otherKey, _ := crypto.GenerateKey()
	msg := fmt.Sprintf(template, address)
	sig, _ := crypto.Sign(accounts.TextHash([]byte(msg)), otherKey)
	sig[crypto.RecoveryIDOffset] += 27
	_, err = u.Login(c, address, fmt.Sprintf("0x%x", sig))
	req.ErrorIs(err, domain.ErrInvalidSignature)
}

func TestParseTokenRejectsGarbage(t *testing.T) {
	req := require.New(t)

	u := usecase.New("jwt-secret", template)
	_, err := u.ParseToken(ctx.Background(), "garbage")
	req.Error(err)
}
