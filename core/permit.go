package core

import (
	"wrose-ledger/core/model"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

const (
	eip712DomainTypeDef = "EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)"
	permitTypeDef       = "Permit(address owner,address spender,uint256 value,uint256 nonce,uint256 deadline)"
	permitVersion       = "1"
)

// PermitVerifier is the signature-gated entry into the allowance table. It
// is the sole owner of the per-owner nonces. The current nonce is folded
// into every digest, so a replayed or stale permit recovers to the wrong
// signer rather than needing a separate nonce check.
type PermitVerifier struct {
	nonces          map[common.Address]uint64
	domainSeparator common.Hash
	permitTypeHash  common.Hash
	allowances      *AllowanceTable
	now             func() uint64
}

// NewPermitVerifier binds the verifier to one ledger instance: the domain
// separator commits to the token name, a version tag, the chain id and the
// ledger address, so a permit signed for one deployment is dead on any
// other.
func NewPermitVerifier(name string, chainID uint64, ledger common.Address, allowances *AllowanceTable, now func() uint64) *PermitVerifier {
	chain := model.NewAmountFromUint64(chainID).Bytes32()
	domainSeparator := crypto.Keccak256Hash(
		model.Keccak256Hash(eip712DomainTypeDef).Bytes(),
		model.Keccak256Hash(name).Bytes(),
		model.Keccak256Hash(permitVersion).Bytes(),
		chain[:],
		common.BytesToHash(ledger.Bytes()).Bytes(),
	)

	return &PermitVerifier{
		nonces:          make(map[common.Address]uint64),
		domainSeparator: domainSeparator,
		permitTypeHash:  model.Keccak256Hash(permitTypeDef),
		allowances:      allowances,
		now:             now,
	}
}

func (p *PermitVerifier) NonceOf(owner common.Address) uint64 {
	return p.nonces[owner]
}

func (p *PermitVerifier) DomainSeparator() common.Hash {
	return p.domainSeparator
}

// Digest builds the typed-data hash an owner must sign to authorize the
// allowance change at their current nonce.
func (p *PermitVerifier) Digest(owner common.Address, spender common.Address, amount *model.Amount, deadline uint64) common.Hash {
	value := amount.Bytes32()
	nonce := model.NewAmountFromUint64(p.nonces[owner]).Bytes32()
	expiry := model.NewAmountFromUint64(deadline).Bytes32()

	structHash := crypto.Keccak256Hash(
		p.permitTypeHash.Bytes(),
		common.BytesToHash(owner.Bytes()).Bytes(),
		common.BytesToHash(spender.Bytes()).Bytes(),
		value[:],
		nonce[:],
		expiry[:],
	)

	return crypto.Keccak256Hash([]byte{0x19, 0x01}, p.domainSeparator.Bytes(), structHash.Bytes())
}

// Verify checks a signed authorization and, on success, advances the
// owner's nonce and writes the allowance on their behalf.
func (p *PermitVerifier) Verify(owner common.Address, spender common.Address, amount *model.Amount, deadline uint64, signature []byte) error {
	// rejected before any signature work: Approve would refuse the null
	// spender anyway, and the nonce must not advance for a doomed permit
	if spender == (common.Address{}) {
		return model.ErrorInvalidSpender
	}
	if p.now() > deadline {
		logrus.Warnf("permit expired: owner %s deadline %d", owner.Hex(), deadline)
		return model.ErrorExpiredAuthorization
	}

	sig, err := normalizeSignature(signature)
	if err != nil {
		return err
	}

	digest := p.Digest(owner, spender, amount, deadline)
	pub, err := crypto.SigToPub(digest.Bytes(), sig)
	if err != nil {
		logrus.Warnf("permit recover err: %v, owner %s", err, owner.Hex())
		return model.ErrorInvalidSignature
	}

	signer := crypto.PubkeyToAddress(*pub)
	if signer != owner {
		logrus.Warnf("permit signer %s does not match owner %s", signer.Hex(), owner.Hex())
		return &model.SignerMismatchError{Recovered: signer, Owner: owner}
	}

	p.nonces[owner]++

	logrus.Infof("permit ok: owner %s spender %s amount %s nonce %d", owner.Hex(), spender.Hex(), amount, p.nonces[owner])

	return p.allowances.Approve(owner, spender, amount)
}

// normalizeSignature accepts 65-byte r||s||v signatures with v as either a
// raw recovery id (0/1) or the on-chain convention (27/28).
func normalizeSignature(signature []byte) ([]byte, error) {
	if len(signature) != crypto.SignatureLength {
		return nil, model.ErrorInvalidSignature
	}
	sig := make([]byte, crypto.SignatureLength)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}
	if sig[64] > 1 {
		return nil, model.ErrorInvalidSignature
	}
	return sig, nil
}
