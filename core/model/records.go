package model

import (
	"github.com/ethereum/go-ethereum/common"
)

type LedgerOperation string

const (
	OperationDeposit      LedgerOperation = "deposit"
	OperationWithdraw     LedgerOperation = "withdraw"
	OperationWithdrawFrom LedgerOperation = "withdrawFrom"
	OperationTransfer     LedgerOperation = "transfer"
	OperationTransferFrom LedgerOperation = "transferFrom"
	OperationApprove      LedgerOperation = "approve"
	OperationPermit       LedgerOperation = "permit"
)

// TokenInfo is the metadata and running counters of the wrapped token.
type TokenInfo struct {
	Name      string `gorm:"index:idx_name,unique"`
	Symbol    string
	Decimals  uint8
	Holders   int32
	Trxs      int32
	CreatedAt uint64
}

// Record is the journal entry appended for every attempted caller-facing
// operation, valid or not.
type Record struct {
	Seq       uint64          `gorm:"index:idx_seq,unique"`
	Operation LedgerOperation `gorm:"index:idx_oper"`
	// transfer and escrow args
	From common.Address `gorm:"index:idx_from"`
	To   common.Address `gorm:"index:idx_to"`
	// allowance args
	Owner     common.Address
	Spender   common.Address
	Amount    *Amount
	Timestamp uint64
	Valid     ValidCode
}
