package main

import (
	"time"
	"wrose-ledger/chain"
	"wrose-ledger/core"
	"wrose-ledger/core/model"
	"wrose-ledger/utils/generics/must"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

const (
	ChainID      = 42262 // Oasis Emerald
	VaultAddress = "0x21C718C22D52d0F3a789b752D4c2fD5908a8A733"
)

func main() {
	bank := chain.NewNativeBank()
	vaultAddr := common.HexToAddress(VaultAddress)
	escrow := chain.NewEscrowAccount(bank, vaultAddr)

	vault := core.NewVault(core.VaultConfig{
		Address: vaultAddr,
		ChainID: ChainID,
	}, escrow)

	aliceKey := must.Must(crypto.GenerateKey())
	alice := crypto.PubkeyToAddress(aliceKey.PublicKey)
	bobKey := must.Must(crypto.GenerateKey())
	bob := crypto.PubkeyToAddress(bobKey.PublicKey)

	oneRose := must.Must(model.NewAmountFromString("1000000000000000000"))
	bank.Fund(alice, must.Must(model.NewAmountFromString("5000000000000000000")))

	if err := vault.Deposit(alice, oneRose); err != nil {
		logrus.Fatalf("deposit err: %v", err)
	}
	logrus.Infof("alice holds %s %s, supply %s, escrowed %s",
		vault.BalanceOf(alice), vault.Symbol(), vault.TotalSupply(), escrow.Escrowed())

	if err := vault.Transfer(alice, bob, oneRose); err != nil {
		logrus.Fatalf("transfer err: %v", err)
	}

	// bob authorizes alice off-chain and alice redeems on bob's behalf
	deadline := uint64(time.Now().Unix()) + 3600
	digest := vault.PermitDigest(bob, alice, oneRose, deadline)
	signature := must.Must(crypto.Sign(digest.Bytes(), bobKey))

	if err := vault.Permit(bob, alice, oneRose, deadline, signature); err != nil {
		logrus.Fatalf("permit err: %v", err)
	}
	if err := vault.WithdrawFrom(alice, bob, alice, oneRose); err != nil {
		logrus.Fatalf("withdrawFrom err: %v", err)
	}

	logrus.Infof("supply %s, escrowed %s, alice native %s",
		vault.TotalSupply(), escrow.Escrowed(), bank.BalanceOf(alice))

	for _, record := range vault.Journal().Records() {
		logrus.Infof("record %d %s %s: %s", record.Seq, record.Operation, record.Amount, record.Valid)
	}
}
