package model

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"
)

// Amount is an unsigned 256-bit ledger quantity. Arithmetic never wraps:
// operations that would overflow or underflow report it and leave the
// operands untouched.
type Amount struct {
	i uint256.Int
}

var ErrorAmountFormat = errors.New("amount format error")

func NewAmount() *Amount {
	return &Amount{}
}

func NewAmountFromUint64(v uint64) *Amount {
	var a Amount
	a.i.SetUint64(v)
	return &a
}

func NewAmountFromString(value string) (*Amount, error) {
	i, err := uint256.FromDecimal(value)
	if err != nil {
		return nil, ErrorAmountFormat
	}
	return &Amount{i: *i}, nil
}

func NewAmountFromBig(v *big.Int) (*Amount, error) {
	i, overflow := uint256.FromBig(v)
	if overflow || v.Sign() < 0 {
		return nil, ErrorAmountFormat
	}
	return &Amount{i: *i}, nil
}

// Unlimited is the sentinel allowance value: the maximum representable
// amount. Spend never decrements it.
func Unlimited() *Amount {
	var a Amount
	a.i.SetAllOne()
	return &a
}

func (a *Amount) IsUnlimited() bool {
	var max uint256.Int
	max.SetAllOne()
	return a.i.Eq(&max)
}

func (a *Amount) Add(b *Amount) (*Amount, bool) {
	var sum Amount
	_, overflow := sum.i.AddOverflow(&a.i, &b.i)
	return &sum, overflow
}

func (a *Amount) Sub(b *Amount) (*Amount, bool) {
	var diff Amount
	_, underflow := diff.i.SubOverflow(&a.i, &b.i)
	return &diff, underflow
}

func (a *Amount) Cmp(b *Amount) int {
	return a.i.Cmp(&b.i)
}

func (a *Amount) Sign() int {
	if a.i.IsZero() {
		return 0
	}
	return 1
}

func (a *Amount) Clone() *Amount {
	return &Amount{i: a.i}
}

func (a *Amount) Bytes32() [32]byte {
	return a.i.Bytes32()
}

func (a *Amount) Uint64() uint64 {
	return a.i.Uint64()
}

func (a *Amount) String() string {
	return a.i.Dec()
}
