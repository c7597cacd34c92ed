package chain

import (
	"wrose-ledger/core/model"
	"github.com/ethereum/go-ethereum/common"
)

// EscrowAccount adapts a NativeBank account into the vault's escrow
// primitive: custody is a plain native-asset account owned by the ledger
// address, so the 1:1 backing is directly observable on the bank.
type EscrowAccount struct {
	bank    *NativeBank
	custody common.Address
}

func NewEscrowAccount(bank *NativeBank, custody common.Address) *EscrowAccount {
	return &EscrowAccount{bank: bank, custody: custody}
}

func (e *EscrowAccount) Escrowed() *model.Amount {
	return e.bank.BalanceOf(e.custody)
}

func (e *EscrowAccount) Receive(from common.Address, amount *model.Amount) error {
	return e.bank.Transfer(from, e.custody, amount)
}

func (e *EscrowAccount) Release(to common.Address, amount *model.Amount) error {
	return e.bank.Transfer(e.custody, to, amount)
}
