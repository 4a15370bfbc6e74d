package signer

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

// SignatureLength is the length of a signature produced by Sign: 32
// bytes r, 32 bytes s, 1 byte v (27 or 28).
const SignatureLength = 65

// domainSeparator is computed once; Domain() is pure and has no runtime
// configuration, so there is nothing to gain from recomputing it per
// call.
var domainSeparator = Domain()

var gameMoveHashArgs = abi.Arguments{
	{Type: mustType("bytes32")},
	{Type: mustType("uint256")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("bytes32")},
	{Type: mustType("bytes32")},
	{Type: mustType("bytes32")},
}

// StructHash computes the EIP-712 struct hash of a GameMove: keccak256
// of (GAME_MOVE_TYPEHASH, gameId, nonce, player, hash(oldState),
// hash(newState), hash(move)).
func StructHash(m codec.GameMove) common.Hash {
	packed, err := gameMoveHashArgs.Pack(
		gameMoveTypeHash,
		new(big.Int).SetUint64(m.GameID),
		new(big.Int).SetUint64(m.Nonce),
		m.Player,
		crypto.Keccak256Hash(m.OldStateBytes),
		crypto.Keccak256Hash(m.NewStateBytes),
		crypto.Keccak256Hash(m.MoveBytes),
	)
	if err != nil {
		panic("signer: encode struct hash: " + err.Error())
	}
	return crypto.Keccak256Hash(packed)
}

// Digest computes the final EIP-712 digest: keccak256(0x1901 ||
// domainSeparator || structHash(m)).
func Digest(m codec.GameMove) common.Hash {
	sh := StructHash(m)
	buf := make([]byte, 0, 2+32+32)
	buf = append(buf, 0x19, 0x01)
	buf = append(buf, domainSeparator[:]...)
	buf = append(buf, sh[:]...)
	return crypto.Keccak256Hash(buf)
}

// Sign signs m's EIP-712 digest with key and returns a 65-byte signature
// with v normalized to {27,28}.
func Sign(key *ecdsa.PrivateKey, m codec.GameMove) ([]byte, error) {
	digest := Digest(m)
	sig, err := crypto.Sign(digest[:], key)
	if err != nil {
		return nil, fmt.Errorf("%w: sign: %v", gjerr.ErrBadSignature, err)
	}
	sig[64] += 27
	return sig, nil
}

// Recover recovers the address that produced sig over m's EIP-712
// digest. It fails with gjerr.ErrBadSignature on invalid encoding or a
// non-recoverable point. Recover is pure and idempotent.
func Recover(m codec.GameMove, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("%w: signature length %d", gjerr.ErrBadSignature, len(sig))
	}
	v := sig[64]
	if v != 27 && v != 28 {
		return common.Address{}, fmt.Errorf("%w: bad recovery id %d", gjerr.ErrBadSignature, v)
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	normalized[64] = v - 27

	digest := Digest(m)
	pub, err := crypto.SigToPub(digest[:], normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: recover: %v", gjerr.ErrBadSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
