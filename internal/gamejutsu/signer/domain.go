// Package signer implements the EIP-712 typed-data domain separator,
// struct hash, and secp256k1 sign/recover described in spec.md §4.2/§6.
// Hashing and recovery are delegated to github.com/ethereum/go-ethereum's
// crypto package, the same secp256k1 implementation the rest of the
// pack's chain tooling is built on — a hand-rolled ECDSA implementation
// would risk producing signatures the reference contract can't recover.
package signer

import (
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Domain literals, spec.md §6. These are normative: every implementation
// intending wire compatibility must use exactly these values.
const (
	DomainName    = "GameJutsu"
	DomainVersion = "0.1"
	ChainID       = 137
)

var (
	// VerifyingContract is the normative address from spec.md §6.
	VerifyingContract = common.HexToAddress("0xCcCCccccCCCCcCCCCCCcCcCccCcCCCcCcccccccC")

	// Salt is the normative 32-byte salt from spec.md §6.
	Salt = common.HexToHash("0x920dfa98b3727bbfe860dd7341801f2e2a55cd7f637dea958edfc5df56c35e4d")

	domainTypeHash = crypto.Keccak256Hash(
		[]byte("EIP712Domain(string name,string version,uint256 chainId,address verifyingContract,bytes32 salt)"),
	)
	gameMoveTypeHash = crypto.Keccak256Hash(
		[]byte("GameMove(uint256 gameId,uint256 nonce,address player,bytes oldState,bytes newState,bytes move)"),
	)
)

// Domain computes the EIP-712 domain separator for the fixed GameJutsu
// literals. It is pure and depends on no runtime configuration, so it is
// computed once (domainSeparator in signer.go) and reused for every
// digest.
func Domain() common.Hash {
	nameHash := crypto.Keccak256Hash([]byte(DomainName))
	versionHash := crypto.Keccak256Hash([]byte(DomainVersion))

	encoded, err := staticHashArgs.Pack(
		domainTypeHash,
		nameHash,
		versionHash,
		new(big.Int).SetUint64(ChainID),
		VerifyingContract,
		Salt,
	)
	if err != nil {
		panic("signer: encode domain separator: " + err.Error())
	}
	return crypto.Keccak256Hash(encoded)
}

var staticHashArgs = abi.Arguments{
	{Type: mustType("bytes32")},
	{Type: mustType("bytes32")},
	{Type: mustType("bytes32")},
	{Type: mustType("uint256")},
	{Type: mustType("address")},
	{Type: mustType("bytes32")},
}

func mustType(t string) abi.Type {
	typ, err := abi.NewType(t, "", nil)
	if err != nil {
		panic("signer: bad abi type " + t + ": " + err.Error())
	}
	return typ
}
