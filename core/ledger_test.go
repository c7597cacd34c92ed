package core

import (
	"errors"
	"testing"

	"wrose-ledger/core/model"

	"github.com/ethereum/go-ethereum/common"
)

var (
	testVaultAddr = common.HexToAddress("0x21C718C22D52d0F3a789b752D4c2fD5908a8A733")
	testAlice     = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testBob       = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testCarol     = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func newTestLedger() (*Ledger, *Journal) {
	journal := NewJournal(testVaultAddr)
	info := &model.TokenInfo{Name: "Wrapped ROSE", Symbol: "wROSE", Decimals: 18}
	return NewLedger(info, journal), journal
}

func TestMintRejectsZeroRecipient(t *testing.T) {
	ledger, journal := newTestLedger()

	err := ledger.Mint(common.Address{}, model.NewAmountFromUint64(10))
	if !errors.Is(err, model.ErrorInvalidRecipient) {
		t.Fatalf("mint to zero: got %v, want ErrorInvalidRecipient", err)
	}
	if ledger.TotalSupply().Sign() != 0 {
		t.Errorf("supply changed on rejected mint")
	}
	if len(journal.Logs()) != 0 {
		t.Errorf("rejected mint emitted a notification")
	}
}

func TestMintZeroAmountStillNotifies(t *testing.T) {
	ledger, journal := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmount()); err != nil {
		t.Fatalf("zero mint: %v", err)
	}
	if len(journal.Logs()) != 1 {
		t.Fatalf("zero mint logs = %d, want 1", len(journal.Logs()))
	}

	event, err := model.ParseTransferEvent(journal.Logs()[0])
	if err != nil {
		t.Fatalf("parse transfer event: %v", err)
	}
	if event.From != (common.Address{}) || event.To != testAlice {
		t.Errorf("mint event from %s to %s, want null to alice", event.From.Hex(), event.To.Hex())
	}
	if event.Value.Sign() != 0 {
		t.Errorf("mint event value = %s, want 0", event.Value)
	}
}

func TestBurnInsufficientBalance(t *testing.T) {
	ledger, _ := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmountFromUint64(5)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	err := ledger.Burn(testAlice, model.NewAmountFromUint64(6))
	if !errors.Is(err, model.ErrorInsufficientBalance) {
		t.Fatalf("burn 6 of 5: got %v, want ErrorInsufficientBalance", err)
	}
	if ledger.BalanceOf(testAlice).Uint64() != 5 {
		t.Errorf("balance changed on rejected burn")
	}
	if ledger.TotalSupply().Uint64() != 5 {
		t.Errorf("supply changed on rejected burn")
	}
}

func TestTransferMovesAtomically(t *testing.T) {
	ledger, journal := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmountFromUint64(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.transfer(testAlice, testBob, model.NewAmountFromUint64(4)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	if ledger.BalanceOf(testAlice).Uint64() != 6 {
		t.Errorf("alice = %s, want 6", ledger.BalanceOf(testAlice))
	}
	if ledger.BalanceOf(testBob).Uint64() != 4 {
		t.Errorf("bob = %s, want 4", ledger.BalanceOf(testBob))
	}

	event, err := model.ParseTransferEvent(journal.Logs()[len(journal.Logs())-1])
	if err != nil {
		t.Fatalf("parse transfer event: %v", err)
	}
	if event.From != testAlice || event.To != testBob || event.Value.Uint64() != 4 {
		t.Errorf("transfer event %s -> %s value %s", event.From.Hex(), event.To.Hex(), event.Value)
	}
}

func TestTransferRejectsZeroRecipient(t *testing.T) {
	ledger, _ := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmountFromUint64(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	err := ledger.transfer(testAlice, common.Address{}, model.NewAmountFromUint64(1))
	if !errors.Is(err, model.ErrorInvalidRecipient) {
		t.Fatalf("transfer to zero: got %v, want ErrorInvalidRecipient", err)
	}
}

func TestTransferInsufficientLeavesStateUntouched(t *testing.T) {
	ledger, journal := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmountFromUint64(3)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	logsBefore := len(journal.Logs())

	err := ledger.transfer(testAlice, testBob, model.NewAmountFromUint64(4))
	if !errors.Is(err, model.ErrorInsufficientBalance) {
		t.Fatalf("transfer 4 of 3: got %v, want ErrorInsufficientBalance", err)
	}
	if ledger.BalanceOf(testAlice).Uint64() != 3 || ledger.BalanceOf(testBob).Sign() != 0 {
		t.Errorf("balances changed on rejected transfer")
	}
	if len(journal.Logs()) != logsBefore {
		t.Errorf("rejected transfer emitted a notification")
	}
}

func TestConservationOverSequence(t *testing.T) {
	ledger, _ := newTestLedger()

	steps := []func() error{
		func() error { return ledger.Mint(testAlice, model.NewAmountFromUint64(100)) },
		func() error { return ledger.Mint(testBob, model.NewAmountFromUint64(40)) },
		func() error { return ledger.transfer(testAlice, testCarol, model.NewAmountFromUint64(25)) },
		func() error { return ledger.Burn(testBob, model.NewAmountFromUint64(15)) },
		func() error { return ledger.transfer(testCarol, testBob, model.NewAmountFromUint64(5)) },
		func() error { return ledger.Burn(testAlice, model.NewAmountFromUint64(75)) },
	}

	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}

		sum := model.NewAmount()
		for _, account := range []common.Address{testAlice, testBob, testCarol} {
			sum, _ = sum.Add(ledger.BalanceOf(account))
		}
		if sum.Cmp(ledger.TotalSupply()) != 0 {
			t.Fatalf("step %d: sum of balances %s != supply %s", i, sum, ledger.TotalSupply())
		}
	}

	if ledger.TotalSupply().Uint64() != 50 {
		t.Errorf("final supply = %s, want 50", ledger.TotalSupply())
	}
}

func TestHolderCounters(t *testing.T) {
	ledger, _ := newTestLedger()

	if err := ledger.Mint(testAlice, model.NewAmountFromUint64(10)); err != nil {
		t.Fatalf("mint: %v", err)
	}
	if err := ledger.transfer(testAlice, testBob, model.NewAmountFromUint64(10)); err != nil {
		t.Fatalf("transfer: %v", err)
	}

	info := ledger.Info()
	if info.Holders != 1 {
		t.Errorf("holders = %d, want 1", info.Holders)
	}
	if info.Trxs != 2 {
		t.Errorf("trxs = %d, want 2", info.Trxs)
	}
}
