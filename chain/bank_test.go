package chain

import (
	"errors"
	"testing"

	"wrose-ledger/core/model"

	"github.com/ethereum/go-ethereum/common"
)

var (
	bankAlice   = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bankBob     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	bankCustody = common.HexToAddress("0x21C718C22D52d0F3a789b752D4c2fD5908a8A733")
)

func TestNativeTransfer(t *testing.T) {
	bank := NewNativeBank()
	bank.Fund(bankAlice, model.NewAmountFromUint64(100))

	if err := bank.Transfer(bankAlice, bankBob, model.NewAmountFromUint64(40)); err != nil {
		t.Fatalf("transfer: %v", err)
	}
	if bank.BalanceOf(bankAlice).Uint64() != 60 {
		t.Errorf("alice = %s, want 60", bank.BalanceOf(bankAlice))
	}
	if bank.BalanceOf(bankBob).Uint64() != 40 {
		t.Errorf("bob = %s, want 40", bank.BalanceOf(bankBob))
	}
}

func TestNativeTransferInsufficientFunds(t *testing.T) {
	bank := NewNativeBank()
	bank.Fund(bankAlice, model.NewAmountFromUint64(10))

	err := bank.Transfer(bankAlice, bankBob, model.NewAmountFromUint64(11))
	if !errors.Is(err, ErrorInsufficientFunds) {
		t.Fatalf("overdraw: got %v, want ErrorInsufficientFunds", err)
	}
	if bank.BalanceOf(bankAlice).Uint64() != 10 {
		t.Errorf("balance changed on rejected transfer")
	}
}

func TestNativeTransferRejectingRecipient(t *testing.T) {
	bank := NewNativeBank()
	bank.Fund(bankAlice, model.NewAmountFromUint64(10))
	bank.SetRejecting(bankBob, true)

	err := bank.Transfer(bankAlice, bankBob, model.NewAmountFromUint64(5))
	if !errors.Is(err, ErrorRecipientRejected) {
		t.Fatalf("transfer to rejecting account: got %v, want ErrorRecipientRejected", err)
	}

	bank.SetRejecting(bankBob, false)
	if err := bank.Transfer(bankAlice, bankBob, model.NewAmountFromUint64(5)); err != nil {
		t.Fatalf("transfer after unset: %v", err)
	}
}

func TestEscrowAccountRoundTrip(t *testing.T) {
	bank := NewNativeBank()
	bank.Fund(bankAlice, model.NewAmountFromUint64(100))
	escrow := NewEscrowAccount(bank, bankCustody)

	if err := escrow.Receive(bankAlice, model.NewAmountFromUint64(70)); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if escrow.Escrowed().Uint64() != 70 {
		t.Errorf("escrowed = %s, want 70", escrow.Escrowed())
	}

	if err := escrow.Release(bankBob, model.NewAmountFromUint64(30)); err != nil {
		t.Fatalf("release: %v", err)
	}
	if escrow.Escrowed().Uint64() != 40 {
		t.Errorf("escrowed = %s, want 40", escrow.Escrowed())
	}
	if bank.BalanceOf(bankBob).Uint64() != 30 {
		t.Errorf("bob = %s, want 30", bank.BalanceOf(bankBob))
	}
}
