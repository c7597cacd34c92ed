package model

import (
	"fmt"
	"math/big"
	"strings"

	"wrose-ledger/utils/generics/must"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

// TransferEvent is the notification emitted on every mint, burn and
// transfer. Mints carry the zero address as From, burns as To.
type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value *Amount
}

// ApprovalEvent is the notification emitted on every allowance change,
// whether caller-gated (approve), signature-gated (permit) or
// consume-on-use (transferFrom / withdrawFrom).
type ApprovalEvent struct {
	Owner   common.Address
	Spender common.Address
	Value   *Amount
}

const ERC20EventABIJson = `[{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"from","type":"address"},{"indexed":true,"internalType":"address","name":"to","type":"address"},{"indexed":false,"internalType":"uint256","name":"value","type":"uint256"}],"name":"Transfer","type":"event"},{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"owner","type":"address"},{"indexed":true,"internalType":"address","name":"spender","type":"address"},{"indexed":false,"internalType":"uint256","name":"value","type":"uint256"}],"name":"Approval","type":"event"}]`

var (
	ERC20EventABI = must.Must(abi.JSON(strings.NewReader(ERC20EventABIJson)))

	TopicsTransfer = "0x" + Keccak256("Transfer(address,address,uint256)")
	TopicsApproval = "0x" + Keccak256("Approval(address,address,uint256)")

	TransferEventName = "Transfer"
	ApprovalEventName = "Approval"
)

func NewTransferLog(ledger common.Address, from common.Address, to common.Address, value *Amount) *types.Log {
	data := value.Bytes32()
	return &types.Log{
		Address: ledger,
		Topics: []common.Hash{
			common.HexToHash(TopicsTransfer),
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: data[:],
	}
}

func NewApprovalLog(ledger common.Address, owner common.Address, spender common.Address, value *Amount) *types.Log {
	data := value.Bytes32()
	return &types.Log{
		Address: ledger,
		Topics: []common.Hash{
			common.HexToHash(TopicsApproval),
			common.BytesToHash(owner.Bytes()),
			common.BytesToHash(spender.Bytes()),
		},
		Data: data[:],
	}
}

func amountFromEventData(eventData map[string]interface{}, name string) (*Amount, error) {
	raw, ok := eventData[name].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("field '%s' is not uint256", name)
	}
	return NewAmountFromBig(raw)
}

func ParseEventLog(parsedAbi abi.ABI, eventName string, logData *types.Log) (map[string]interface{}, error) {
	event, exists := parsedAbi.Events[eventName]
	if !exists {
		return nil, fmt.Errorf("event '%s' not found", eventName)
	}

	var err error
	eventData := make(map[string]interface{})
	err = parsedAbi.UnpackIntoMap(eventData, eventName, logData.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to unpack event data: %w", err)
	}

	for i, topic := range logData.Topics[1:] {
		indexedName := event.Inputs[i].Name
		eventData[indexedName] = topic
	}

	return eventData, nil
}

func ParseTransferEvent(logData *types.Log) (*TransferEvent, error) {
	eventData, err := ParseEventLog(ERC20EventABI, TransferEventName, logData)
	if err != nil {
		return nil, err
	}

	event := &TransferEvent{Value: NewAmount()}

	if from, ok := eventData["from"].(common.Hash); ok {
		event.From = common.BytesToAddress(from[:])
	}
	if to, ok := eventData["to"].(common.Hash); ok {
		event.To = common.BytesToAddress(to[:])
	}
	if value, err := amountFromEventData(eventData, "value"); err == nil {
		event.Value = value
	}

	return event, nil
}

func ParseApprovalEvent(logData *types.Log) (*ApprovalEvent, error) {
	eventData, err := ParseEventLog(ERC20EventABI, ApprovalEventName, logData)
	if err != nil {
		return nil, err
	}

	event := &ApprovalEvent{Value: NewAmount()}

	if owner, ok := eventData["owner"].(common.Hash); ok {
		event.Owner = common.BytesToAddress(owner[:])
	}
	if spender, ok := eventData["spender"].(common.Hash); ok {
		event.Spender = common.BytesToAddress(spender[:])
	}
	if value, err := amountFromEventData(eventData, "value"); err == nil {
		event.Value = value
	}

	return event, nil
}
