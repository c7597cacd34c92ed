package model

import (
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

type ValidCode int8

var (
	ErrorInsufficientBalance   = errors.New("insufficient balance")
	ErrorInsufficientAllowance = errors.New("insufficient allowance")
	ErrorInvalidRecipient      = errors.New("invalid recipient")
	ErrorInvalidSpender        = errors.New("invalid spender")
	ErrorSelfTransferForbidden = errors.New("transfer to ledger itself forbidden")
	ErrorExpiredAuthorization  = errors.New("authorization expired")
	ErrorInvalidSignature      = errors.New("invalid signature")
	ErrorReleaseFailed         = errors.New("escrow release failed")
	ErrorReceiveFailed         = errors.New("escrow receive failed")
	ErrorAmountOverflow        = errors.New("amount overflow")
)

// SignerMismatchError reports a permit whose signature recovered to an
// identity other than the claimed owner. A stale or reused nonce surfaces
// here too, since the nonce is folded into the signed digest.
type SignerMismatchError struct {
	Recovered common.Address
	Owner     common.Address
}

func (e *SignerMismatchError) Error() string {
	return fmt.Sprintf("signer mismatch: recovered %s, want %s", e.Recovered.Hex(), e.Owner.Hex())
}

const (
	ValidCodeUnknownError ValidCode = 0
	ValidCodeOK           ValidCode = 1

	ValidCodeInvalidRecipient      ValidCode = -11
	ValidCodeInvalidSpender        ValidCode = -12
	ValidCodeSelfTransferForbidden ValidCode = -13
	ValidCodeAmountOverflow        ValidCode = -14

	ValidCodeInsufficientBalance   ValidCode = -21
	ValidCodeInsufficientAllowance ValidCode = -22

	ValidCodeExpiredAuthorization ValidCode = -31
	ValidCodeInvalidSignature     ValidCode = -32
	ValidCodeSignerMismatch       ValidCode = -33

	ValidCodeReleaseFailed ValidCode = -41
	ValidCodeReceiveFailed ValidCode = -42
)

func (code ValidCode) String() string {
	messages := map[ValidCode]string{
		ValidCodeUnknownError:          "Unknown error",
		ValidCodeOK:                    "Operation successful",
		ValidCodeInvalidRecipient:      "Invalid recipient",
		ValidCodeInvalidSpender:        "Invalid spender",
		ValidCodeSelfTransferForbidden: "Transfer to ledger forbidden",
		ValidCodeAmountOverflow:        "Amount overflow",
		ValidCodeInsufficientBalance:   "Balance not satisfied",
		ValidCodeInsufficientAllowance: "Allowance not satisfied",
		ValidCodeExpiredAuthorization:  "Authorization expired",
		ValidCodeInvalidSignature:      "Invalid signature",
		ValidCodeSignerMismatch:        "Signer mismatch",
		ValidCodeReleaseFailed:         "Escrow release failed",
		ValidCodeReceiveFailed:         "Escrow receive failed",
	}

	msg, ok := messages[code]
	if !ok {
		return "Unrecognized error code"
	}
	return msg
}

func CodeForError(err error) ValidCode {
	if err == nil {
		return ValidCodeOK
	}
	var mismatch *SignerMismatchError
	if errors.As(err, &mismatch) {
		return ValidCodeSignerMismatch
	}
	switch {
	case errors.Is(err, ErrorInsufficientBalance):
		return ValidCodeInsufficientBalance
	case errors.Is(err, ErrorInsufficientAllowance):
		return ValidCodeInsufficientAllowance
	case errors.Is(err, ErrorInvalidRecipient):
		return ValidCodeInvalidRecipient
	case errors.Is(err, ErrorInvalidSpender):
		return ValidCodeInvalidSpender
	case errors.Is(err, ErrorSelfTransferForbidden):
		return ValidCodeSelfTransferForbidden
	case errors.Is(err, ErrorExpiredAuthorization):
		return ValidCodeExpiredAuthorization
	case errors.Is(err, ErrorInvalidSignature):
		return ValidCodeInvalidSignature
	case errors.Is(err, ErrorReleaseFailed):
		return ValidCodeReleaseFailed
	case errors.Is(err, ErrorReceiveFailed):
		return ValidCodeReceiveFailed
	case errors.Is(err, ErrorAmountOverflow):
		return ValidCodeAmountOverflow
	}
	return ValidCodeUnknownError
}
