package core

import (
	"fmt"
	"time"

	"wrose-ledger/core/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
)

// Escrow is the native-asset custody primitive the vault composes with the
// ledger. Receive takes custody of the depositor's native asset; Release
// hands custody back out and must fail loudly when the recipient cannot
// accept it.
type Escrow interface {
	Receive(from common.Address, amount *model.Amount) error
	Release(to common.Address, amount *model.Amount) error
}

type VaultConfig struct {
	Address  common.Address
	Name     string
	Symbol   string
	Decimals uint8
	ChainID  uint64
	Now      func() uint64
}

// Vault is the caller-facing surface of the wrapped token: deposits mint
// units 1:1 against escrowed native asset, withdrawals burn and release.
// Every state-mutating entry is applied serially; an operation either
// commits whole or leaves no trace beyond its journal record.
type Vault struct {
	address    common.Address
	name       string
	symbol     string
	decimals   uint8
	ledger     *Ledger
	allowances *AllowanceTable
	permits    *PermitVerifier
	escrow     Escrow
	journal    *Journal
	now        func() uint64
}

func NewVault(cfg VaultConfig, escrow Escrow) *Vault {
	if cfg.Name == "" {
		cfg.Name = "Wrapped ROSE"
	}
	if cfg.Symbol == "" {
		cfg.Symbol = "wROSE"
	}
	if cfg.Decimals == 0 {
		cfg.Decimals = 18
	}
	if cfg.Now == nil {
		cfg.Now = func() uint64 { return uint64(time.Now().Unix()) }
	}

	journal := NewJournal(cfg.Address)
	info := &model.TokenInfo{
		Name:      cfg.Name,
		Symbol:    cfg.Symbol,
		Decimals:  cfg.Decimals,
		CreatedAt: cfg.Now(),
	}
	allowances := NewAllowanceTable(journal)

	return &Vault{
		address:    cfg.Address,
		name:       cfg.Name,
		symbol:     cfg.Symbol,
		decimals:   cfg.Decimals,
		ledger:     NewLedger(info, journal),
		allowances: allowances,
		permits:    NewPermitVerifier(cfg.Name, cfg.ChainID, cfg.Address, allowances, cfg.Now),
		escrow:     escrow,
		journal:    journal,
		now:        cfg.Now,
	}
}

func (v *Vault) Address() common.Address { return v.address }

func (v *Vault) Name() string { return v.name }

func (v *Vault) Symbol() string { return v.symbol }

func (v *Vault) Decimals() uint8 { return v.decimals }

func (v *Vault) Journal() *Journal { return v.journal }

func (v *Vault) DomainSeparator() common.Hash { return v.permits.DomainSeparator() }

func (v *Vault) BalanceOf(account common.Address) *model.Amount {
	return v.ledger.BalanceOf(account)
}

func (v *Vault) TotalSupply() *model.Amount {
	return v.ledger.TotalSupply()
}

func (v *Vault) Info() model.TokenInfo {
	return v.ledger.Info()
}

func (v *Vault) Allowance(owner common.Address, spender common.Address) *model.Amount {
	return v.allowances.Allowance(owner, spender)
}

func (v *Vault) NonceOf(owner common.Address) uint64 {
	return v.permits.NonceOf(owner)
}

// PermitDigest is the typed-data hash an owner signs to authorize spender
// for amount at the owner's current nonce.
func (v *Vault) PermitDigest(owner common.Address, spender common.Address, amount *model.Amount, deadline uint64) common.Hash {
	return v.permits.Digest(owner, spender, amount, deadline)
}

// Deposit escrows the caller's attached native asset and mints the same
// amount to the caller.
func (v *Vault) Deposit(caller common.Address, amount *model.Amount) error {
	err := v.depositTo(caller, caller, amount)
	v.record(model.OperationDeposit, model.Record{From: caller, To: caller, Amount: amount.Clone()}, err)
	return err
}

// Receive is the no-operation-selected fallback: native asset sent to the
// vault is a deposit for the sender.
func (v *Vault) Receive(caller common.Address, amount *model.Amount) error {
	return v.Deposit(caller, amount)
}

// DepositTo escrows the caller's native asset and mints to recipient.
func (v *Vault) DepositTo(caller common.Address, recipient common.Address, amount *model.Amount) error {
	err := v.depositTo(caller, recipient, amount)
	v.record(model.OperationDeposit, model.Record{From: caller, To: recipient, Amount: amount.Clone()}, err)
	return err
}

func (v *Vault) depositTo(caller common.Address, recipient common.Address, amount *model.Amount) error {
	if recipient == v.address {
		return model.ErrorSelfTransferForbidden
	}
	if recipient == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}
	// supply bound is checked before taking custody so that Mint below
	// cannot fail with the escrow already holding the deposit
	if _, overflow := v.ledger.TotalSupply().Add(amount); overflow {
		return model.ErrorAmountOverflow
	}

	if err := v.escrow.Receive(caller, amount); err != nil {
		logrus.Errorf("receive %s from %s rejected: %v", amount, caller.Hex(), err)
		return fmt.Errorf("%w: %w", model.ErrorReceiveFailed, err)
	}

	return v.ledger.Mint(recipient, amount)
}

// Withdraw burns amount of the caller's units and releases the escrowed
// native asset back to the caller.
func (v *Vault) Withdraw(caller common.Address, amount *model.Amount) error {
	err := v.withdrawTo(caller, caller, amount)
	v.record(model.OperationWithdraw, model.Record{From: caller, To: caller, Amount: amount.Clone()}, err)
	return err
}

// WithdrawTo burns the caller's units and releases to recipient.
func (v *Vault) WithdrawTo(caller common.Address, recipient common.Address, amount *model.Amount) error {
	err := v.withdrawTo(caller, recipient, amount)
	v.record(model.OperationWithdraw, model.Record{From: caller, To: recipient, Amount: amount.Clone()}, err)
	return err
}

// WithdrawFrom spends the caller's allowance on owner's units, burns them
// and releases to recipient.
func (v *Vault) WithdrawFrom(caller common.Address, owner common.Address, recipient common.Address, amount *model.Amount) error {
	err := v.withdrawFrom(caller, owner, recipient, amount)
	v.record(model.OperationWithdrawFrom, model.Record{From: owner, To: recipient, Owner: owner, Spender: caller, Amount: amount.Clone()}, err)
	return err
}

func (v *Vault) withdrawTo(caller common.Address, recipient common.Address, amount *model.Amount) error {
	if recipient == v.address {
		return model.ErrorSelfTransferForbidden
	}
	if recipient == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}

	// burn before release: a re-entrant call during the release sees the
	// already-decremented balance and cannot double-spend
	checkpoint := v.journal.Checkpoint()
	if err := v.ledger.Burn(caller, amount); err != nil {
		return err
	}

	if err := v.escrow.Release(recipient, amount); err != nil {
		v.journal.Rewind(checkpoint)
		v.ledger.restore(caller, amount)
		logrus.Errorf("release %s to %s rejected: %v", amount, recipient.Hex(), err)
		return fmt.Errorf("%w: %w", model.ErrorReleaseFailed, err)
	}

	return nil
}

func (v *Vault) withdrawFrom(caller common.Address, owner common.Address, recipient common.Address, amount *model.Amount) error {
	if recipient == v.address {
		return model.ErrorSelfTransferForbidden
	}
	if recipient == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}
	// balance is checked before the allowance is consumed, so a doomed
	// withdrawal never burns allowance
	if v.ledger.BalanceOf(owner).Cmp(amount) < 0 {
		return model.ErrorInsufficientBalance
	}

	checkpoint := v.journal.Checkpoint()
	prior := v.allowances.Allowance(owner, caller)
	if err := v.allowances.Spend(owner, caller, amount); err != nil {
		return err
	}

	if err := v.ledger.Burn(owner, amount); err != nil {
		v.journal.Rewind(checkpoint)
		v.allowances.set(owner, caller, prior)
		return err
	}

	if err := v.escrow.Release(recipient, amount); err != nil {
		v.journal.Rewind(checkpoint)
		v.ledger.restore(owner, amount)
		v.allowances.set(owner, caller, prior)
		logrus.Errorf("release %s to %s rejected: %v", amount, recipient.Hex(), err)
		return fmt.Errorf("%w: %w", model.ErrorReleaseFailed, err)
	}

	return nil
}

// Transfer moves the caller's units to another holder.
func (v *Vault) Transfer(caller common.Address, to common.Address, amount *model.Amount) error {
	err := v.transferGuarded(caller, to, amount)
	v.record(model.OperationTransfer, model.Record{From: caller, To: to, Amount: amount.Clone()}, err)
	return err
}

// TransferFrom spends the caller's allowance on from's units and moves
// them to another holder.
func (v *Vault) TransferFrom(caller common.Address, from common.Address, to common.Address, amount *model.Amount) error {
	err := v.transferFromGuarded(caller, from, to, amount)
	v.record(model.OperationTransferFrom, model.Record{From: from, To: to, Owner: from, Spender: caller, Amount: amount.Clone()}, err)
	return err
}

// transferGuarded rejects any transfer whose destination is the vault
// itself: units sent there would be escrow-backed but unredeemable.
func (v *Vault) transferGuarded(from common.Address, to common.Address, amount *model.Amount) error {
	if to == v.address {
		return model.ErrorSelfTransferForbidden
	}
	return v.ledger.transfer(from, to, amount)
}

func (v *Vault) transferFromGuarded(caller common.Address, from common.Address, to common.Address, amount *model.Amount) error {
	if to == v.address {
		return model.ErrorSelfTransferForbidden
	}
	if to == (common.Address{}) {
		return model.ErrorInvalidRecipient
	}
	if v.ledger.BalanceOf(from).Cmp(amount) < 0 {
		return model.ErrorInsufficientBalance
	}

	if err := v.allowances.Spend(from, caller, amount); err != nil {
		return err
	}

	return v.ledger.transfer(from, to, amount)
}

// Approve overwrites the caller's allowance for spender.
func (v *Vault) Approve(caller common.Address, spender common.Address, amount *model.Amount) error {
	err := v.allowances.Approve(caller, spender, amount)
	v.record(model.OperationApprove, model.Record{Owner: caller, Spender: spender, Amount: amount.Clone()}, err)
	return err
}

// Permit applies a signed off-chain authorization on the owner's behalf.
func (v *Vault) Permit(owner common.Address, spender common.Address, amount *model.Amount, deadline uint64, signature []byte) error {
	err := v.permits.Verify(owner, spender, amount, deadline, signature)
	v.record(model.OperationPermit, model.Record{Owner: owner, Spender: spender, Amount: amount.Clone()}, err)
	return err
}

func (v *Vault) record(operation model.LedgerOperation, record model.Record, err error) {
	record.Operation = operation
	record.Timestamp = v.now()
	record.Valid = model.CodeForError(err)
	if record.Valid != model.ValidCodeOK {
		logrus.Warnf("%s rejected: %s", operation, record.Valid)
	}
	v.journal.AppendRecord(&record)
}
