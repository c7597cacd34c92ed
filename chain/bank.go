package chain

import (
	"errors"

	"wrose-ledger/core/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

var (
	ErrorInsufficientFunds = errors.New("insufficient native funds")
	ErrorRecipientRejected = errors.New("recipient rejected transfer")
)

// NativeBank models the host chain's native-asset accounts: the external
// value-transfer primitive the ledger escrows against. Accounts can be
// marked as rejecting incoming transfers, which is how a recipient that
// cannot accept a release surfaces to the vault.
type NativeBank struct {
	balances  map[common.Address]*model.Amount
	rejecting map[common.Address]bool
}

func NewNativeBank() *NativeBank {
	return &NativeBank{
		balances:  make(map[common.Address]*model.Amount),
		rejecting: make(map[common.Address]bool),
	}
}

func (b *NativeBank) BalanceOf(account common.Address) *model.Amount {
	balance, ok := b.balances[account]
	if !ok {
		return model.NewAmount()
	}
	return balance.Clone()
}

// Fund credits an account out of thin air. Genesis only.
func (b *NativeBank) Fund(account common.Address, amount *model.Amount) {
	balance := b.BalanceOf(account)
	balance, _ = balance.Add(amount)
	b.balances[account] = balance
}

// SetRejecting toggles whether an account refuses incoming transfers.
func (b *NativeBank) SetRejecting(account common.Address, rejecting bool) {
	b.rejecting[account] = rejecting
}

func (b *NativeBank) Transfer(from common.Address, to common.Address, amount *model.Amount) error {
	if b.rejecting[to] {
		logrus.Warnf("native transfer %s from %s to %s rejected", amount, from.Hex(), to.Hex())
		return ErrorRecipientRejected
	}

	fromBalance := b.BalanceOf(from)
	if fromBalance.Cmp(amount) < 0 {
		return ErrorInsufficientFunds
	}
	fromBalance, _ = fromBalance.Sub(amount)

	toBalance := b.BalanceOf(to)
	toBalance, _ = toBalance.Add(amount)

	// save
	b.balances[from] = fromBalance
	b.balances[to] = toBalance

	return nil
}
