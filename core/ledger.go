package core

import (
	"wrose-ledger/core/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Ledger is the sole owner of balances and the total supply. Every unit it
// tracks is backed 1:1 by escrowed native asset: mint and burn are only
// reachable through the vault's deposit and withdraw paths.
type Ledger struct {
	balances    map[common.Address]*model.Amount
	totalSupply *model.Amount
	info        *model.TokenInfo
	journal     *Journal
}

func NewLedger(info *model.TokenInfo, journal *Journal) *Ledger {
	return &Ledger{
		balances:    make(map[common.Address]*model.Amount),
		totalSupply: model.NewAmount(),
		info:        info,
		journal:     journal,
	}
}

func (l *Ledger) BalanceOf(account common.Address) *model.Amount {
	balance, ok := l.balances[account]
	if !ok {
		return model.NewAmount()
	}
	return balance.Clone()
}

func (l *Ledger) TotalSupply() *model.Amount {
	return l.totalSupply.Clone()
}

func (l *Ledger) Info() model.TokenInfo {
	return *l.info
}

// Mint credits amount to the recipient and grows the supply. A zero amount
// is a legal no-op that still emits its transfer notification.
func (l *Ledger) Mint(to common.Address, amount *model.Amount) error {
	if to == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}

	supply, overflow := l.totalSupply.Add(amount)
	if overflow {
		return model.ErrorAmountOverflow
	}
	l.totalSupply = supply

	newHolder := l.credit(to, amount)
	if newHolder {
		l.info.Holders++
	}
	l.info.Trxs++

	logrus.Infof("mint %s to %s, supply %s", amount, to.Hex(), l.totalSupply)
	l.journal.EmitTransfer(common.Address{}, to, amount.Clone())

	return nil
}

// Burn debits amount from the holder and shrinks the supply.
func (l *Ledger) Burn(from common.Address, amount *model.Amount) error {
	reduceHolder, err := l.debit(from, amount)
	if err != nil {
		return err
	}

	l.totalSupply, _ = l.totalSupply.Sub(amount)

	if reduceHolder {
		l.info.Holders--
	}
	l.info.Trxs++

	logrus.Infof("burn %s from %s, supply %s", amount, from.Hex(), l.totalSupply)
	l.journal.EmitTransfer(from, common.Address{}, amount.Clone())

	return nil
}

// transfer moves amount between holders. Either both sides are applied or
// neither: the debit is validated before any balance changes.
func (l *Ledger) transfer(from common.Address, to common.Address, amount *model.Amount) error {
	if to == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}

	reduceHolder, err := l.debit(from, amount)
	if err != nil {
		return err
	}
	newHolder := l.credit(to, amount)

	if reduceHolder {
		l.info.Holders--
	}
	if newHolder {
		l.info.Holders++
	}
	l.info.Trxs++

	logrus.Infof("transfer %s from %s to %s", amount, from.Hex(), to.Hex())
	l.journal.EmitTransfer(from, to, amount.Clone())

	return nil
}

func (l *Ledger) credit(account common.Address, amount *model.Amount) bool {
	var newHolder = false
	balance, ok := l.balances[account]
	if !ok || balance.Sign() == 0 {
		balance = model.NewAmount()
		newHolder = amount.Sign() > 0
	}

	// cannot overflow: the supply bound was checked by the caller
	balance, _ = balance.Add(amount)

	// save
	l.balances[account] = balance

	return newHolder
}

func (l *Ledger) debit(account common.Address, amount *model.Amount) (bool, error) {
	balance, ok := l.balances[account]
	if !ok {
		balance = model.NewAmount()
	}
	if balance.Cmp(amount) < 0 {
		return false, model.ErrorInsufficientBalance
	}

	balance, _ = balance.Sub(amount)

	var reduceHolder = false
	if balance.Sign() == 0 && amount.Sign() > 0 {
		reduceHolder = true
	}

	// save
	l.balances[account] = balance

	return reduceHolder, nil
}

// restore undoes a committed burn after a failed escrow release. It is the
// only supply mutation that does not notify: the burn it cancels has
// already been rewound from the journal.
func (l *Ledger) restore(account common.Address, amount *model.Amount) {
	l.totalSupply, _ = l.totalSupply.Add(amount)
	if l.credit(account, amount) {
		l.info.Holders++
	}
	l.info.Trxs--
}
