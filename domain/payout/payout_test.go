package payout

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dropstation/marketapi/domain"
)

func TestSplit(t *testing.T) {
	req := require.New(t)

	fee, net := Split(big.NewInt(1000), 250)
	req.Equal(int64(25), fee.Int64())
	req.Equal(int64(975), net.Int64())

	fee, net = Split(big.NewInt(1000), 0)
	req.Equal(int64(0), fee.Int64())
	req.Equal(int64(1000), net.Int64())

	// fee rounds down
	fee, net = Split(big.NewInt(999), 250)
	req.Equal(int64(24), fee.Int64())
	req.Equal(int64(975), net.Int64())
}

func TestParseResponse(t *testing.T) {
	req := require.New(t)
	price := big.NewInt(1000)

	table, err := ParseResponse([]byte(`{"0xAA":"600","0xbb":"400"}`), price)
	req.NoError(err)
	req.Len(table, 2)
	req.Equal(int64(600), table["0xaa"].Int64())
	req.Equal(int64(400), table["0xbb"].Int64())

	// wrapped shape
	table, err = ParseResponse([]byte(`{"payout":{"0xaa":"950","0xbb":"50"}}`), price)
	req.NoError(err)
	req.Equal(int64(950), table["0xaa"].Int64())

	// remainder within tolerance is kept
	table, err = ParseResponse([]byte(`{"0xaa":"950"}`), price)
	req.NoError(err)
	req.Equal(int64(950), table["0xaa"].Int64())

	// remainder above tolerance
	_, err = ParseResponse([]byte(`{"0xaa":"800"}`), price)
	req.ErrorIs(err, domain.ErrBadParamInput)

	// over-assignment
	_, err = ParseResponse([]byte(`{"0xaa":"600","0xbb":"600"}`), price)
	req.ErrorIs(err, domain.ErrBadParamInput)

	// malformed amount
	_, err = ParseResponse([]byte(`{"0xaa":"abc"}`), price)
	req.ErrorIs(err, domain.ErrInvalidNumberFormat)

	// unusable shapes
	_, err = ParseResponse([]byte(`"nope"`), price)
	req.Error(err)
	_, err = ParseResponse([]byte(`{}`), price)
	req.Error(err)
	_, err = ParseResponse([]byte(`{"payout":{}}`), price)
	req.Error(err)
}
