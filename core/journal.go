package core

import (
	"wrose-ledger/core/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// Journal collects the notifications and operation records of one ledger
// instance. Notification logs can be rewound to a checkpoint so that an
// operation failing mid-way leaves nothing behind; operation records are
// append-only and keep their validity code even for rejected attempts.
type Journal struct {
	ledger  common.Address
	logs    []*types.Log
	records []*model.Record
	seq     uint64
}

func NewJournal(ledger common.Address) *Journal {
	return &Journal{ledger: ledger}
}

func (j *Journal) EmitTransfer(from common.Address, to common.Address, value *model.Amount) {
	j.logs = append(j.logs, model.NewTransferLog(j.ledger, from, to, value))
}

func (j *Journal) EmitApproval(owner common.Address, spender common.Address, value *model.Amount) {
	j.logs = append(j.logs, model.NewApprovalLog(j.ledger, owner, spender, value))
}

// Checkpoint marks the current notification position for Rewind.
func (j *Journal) Checkpoint() int {
	return len(j.logs)
}

// Rewind drops every notification emitted after the checkpoint.
func (j *Journal) Rewind(checkpoint int) {
	if checkpoint < 0 || checkpoint > len(j.logs) {
		return
	}
	j.logs = j.logs[:checkpoint]
}

func (j *Journal) Logs() []*types.Log {
	return j.logs
}

func (j *Journal) AppendRecord(record *model.Record) {
	record.Seq = j.seq
	j.seq++
	j.records = append(j.records, record)
}

func (j *Journal) Records() []*model.Record {
	return j.records
}
