package payout

import (
	"encoding/json"
	"math/big"

	"github.com/dropstation/marketapi/domain"
)

// Tolerance is the largest rounding remainder, in minor units, that a
// royalty split may leave unassigned and still be honored.
const Tolerance = 100

var oneHundredPercent = big.NewInt(10_000)

// FeeOf returns the market cut of price at fee basis points, rounded
// down.
func FeeOf(price *big.Int, feeBps uint16) *big.Int {
	fee := new(big.Int).Mul(price, big.NewInt(int64(feeBps)))
	return fee.Div(fee, oneHundredPercent)
}

// Split divides price into the market fee and the seller remainder.
func Split(price *big.Int, feeBps uint16) (fee, net *big.Int) {
	fee = FeeOf(price, feeBps)
	net = new(big.Int).Sub(price, fee)
	return fee, net
}

type wrapped struct {
	Payout map[domain.Address]string `json:"payout"`
}

// ParseResponse decodes the payout table an asset contract returns from
// a transfer-with-payout call. Both accepted shapes carry a map of
// payee to amount string: either the bare map, or the map wrapped in a
// "payout" field. The amounts must sum to no more than price, with at
// most Tolerance minor units left over. Any other shape or an
// out-of-bounds sum yields an error and the caller falls back to a
// single-payee split.
func ParseResponse(raw []byte, price *big.Int) (map[domain.Address]*big.Int, error) {
	var flat map[domain.Address]string
	if err := json.Unmarshal(raw, &flat); err != nil {
		var w wrapped
		if err := json.Unmarshal(raw, &w); err != nil || w.Payout == nil {
			return nil, domain.ErrBadParamInput
		}
		flat = w.Payout
	}
	if len(flat) == 0 {
		return nil, domain.ErrBadParamInput
	}

	table := make(map[domain.Address]*big.Int, len(flat))
	remainder := new(big.Int).Set(price)
	for payee, amount := range flat {
		v, err := domain.ParseAmount(amount)
		if err != nil {
			return nil, err
		}
		if remainder.Cmp(v) < 0 {
			return nil, domain.ErrBadParamInput
		}
		remainder.Sub(remainder, v)
		table[payee.ToLower()] = v
	}
	if remainder.Cmp(big.NewInt(Tolerance)) > 0 {
		return nil, domain.ErrBadParamInput
	}
	return table, nil
}
