package model

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

func Keccak256(data string) string {
	hasher := sha3.NewLegacyKeccak256()

	hasher.Write([]byte(data))

	hash := hasher.Sum(nil)

	return fmt.Sprintf("%x", hash)
}

func Keccak256Hash(data string) common.Hash {
	hasher := sha3.NewLegacyKeccak256()

	hasher.Write([]byte(data))

	return common.BytesToHash(hasher.Sum(nil))
}
