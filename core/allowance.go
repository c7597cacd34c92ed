package core

import (
	"wrose-ledger/core/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// AllowanceTable is the sole owner of per-owner/per-spender spending
// limits. Both authorization paths end here: caller-gated approve and
// signature-gated permit write through Approve, spending paths consume
// through Spend.
type AllowanceTable struct {
	allowances map[common.Address]map[common.Address]*model.Amount
	journal    *Journal
}

func NewAllowanceTable(journal *Journal) *AllowanceTable {
	return &AllowanceTable{
		allowances: make(map[common.Address]map[common.Address]*model.Amount),
		journal:    journal,
	}
}

func (t *AllowanceTable) Allowance(owner common.Address, spender common.Address) *model.Amount {
	remaining, ok := t.allowances[owner][spender]
	if !ok {
		return model.NewAmount()
	}
	return remaining.Clone()
}

// Approve overwrites the allowance unconditionally. Not additive.
func (t *AllowanceTable) Approve(owner common.Address, spender common.Address, amount *model.Amount) error {
	if spender == (common.Address{}) {
		return model.ErrorInvalidSpender
	}

	t.set(owner, spender, amount.Clone())

	logrus.Infof("approve %s: owner %s spender %s", amount, owner.Hex(), spender.Hex())
	t.journal.EmitApproval(owner, spender, amount.Clone())

	return nil
}

// Spend consumes amount from the allowance. The unlimited sentinel is
// never decremented.
func (t *AllowanceTable) Spend(owner common.Address, spender common.Address, amount *model.Amount) error {
	remaining, ok := t.allowances[owner][spender]
	if !ok {
		remaining = model.NewAmount()
	}

	if remaining.IsUnlimited() {
		logrus.Infof("spend %s: owner %s spender %s unlimited", amount, owner.Hex(), spender.Hex())
		t.journal.EmitApproval(owner, spender, remaining.Clone())
		return nil
	}

	if remaining.Cmp(amount) < 0 {
		return model.ErrorInsufficientAllowance
	}

	remaining, _ = remaining.Sub(amount)
	t.set(owner, spender, remaining)

	logrus.Infof("spend %s: owner %s spender %s remaining %s", amount, owner.Hex(), spender.Hex(), remaining)
	t.journal.EmitApproval(owner, spender, remaining.Clone())

	return nil
}

func (t *AllowanceTable) set(owner common.Address, spender common.Address, amount *model.Amount) {
	if _, ok := t.allowances[owner]; !ok {
		t.allowances[owner] = make(map[common.Address]*model.Amount)
	}
	t.allowances[owner][spender] = amount
}
