package domain

import (
	"math/big"
	"strings"
)

type Table string

const (
	TableListings        Table = "listings"
	TableMarketConfigs   Table = "market_configs"
	TableStorageDeposits Table = "storage_deposits"
	TableMarketEvents    Table = "market_events"
)

// Address is an account identity. It is stored and compared in lower case.
type Address string

func (a Address) ToLower() Address {
	return Address(strings.ToLower(string(a)))
}

func (a Address) ToLowerStr() string {
	return strings.ToLower(string(a))
}

func (a Address) Equals(other Address) bool {
	return a.ToLower() == other.ToLower()
}

func (a Address) IsEmpty() bool {
	return len(a) == 0
}

type TokenId string

// OneUnit is the exact payment required on state-changing admin and
// cancellation calls. Requiring a real transfer rules out replayed
// requests signed with an access key that cannot move funds.
const OneUnit = "1"

// ParseAmount parses a non-negative integer amount expressed in minor
// units as a decimal string.
func ParseAmount(s string) (*big.Int, error) {
	if len(s) == 0 {
		return nil, ErrInvalidNumberFormat
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok || v.Sign() < 0 {
		return nil, ErrInvalidNumberFormat
	}
	return v, nil
}

// AssertOneUnit enforces the exact 1-unit payment convention.
func AssertOneUnit(payment string) error {
	if payment != OneUnit {
		return ErrExactPaymentRequired
	}
	return nil
}
