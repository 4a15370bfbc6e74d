package signer

import (
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/require"

	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/codec"
	"github.com/ChainHackers/gamejutsu-arbiter/internal/gamejutsu/gjerr"
)

func TestDomainSeparatorIsDeterministic(t *testing.T) {
	require.Equal(t, Domain(), Domain())
}

func TestSignRecoverRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	want := crypto.PubkeyToAddress(key.PublicKey)

	move := codec.GameMove{
		GameID:        1,
		Nonce:         1,
		Player:        want,
		OldStateBytes: []byte("old"),
		NewStateBytes: []byte("new"),
		MoveBytes:     []byte{9, 14, 0, 1},
	}

	sig, err := Sign(key, move)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)
	require.Contains(t, []byte{27, 28}, sig[64])

	got, err := Recover(move, sig)
	require.NoError(t, err)
	require.Equal(t, want, got)

	// Recover is idempotent.
	got2, err := Recover(move, sig)
	require.NoError(t, err)
	require.Equal(t, got, got2)
}

func TestRecoverBadSignature(t *testing.T) {
	move := codec.GameMove{GameID: 1, Nonce: 1}
	_, err := Recover(move, []byte{0x01, 0x02})
	require.ErrorIs(t, err, gjerr.ErrBadSignature)
}

func TestRecoverTamperedDigestFails(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	move := codec.GameMove{GameID: 1, Nonce: 1, MoveBytes: []byte{1}}
	sig, err := Sign(key, move)
	require.NoError(t, err)

	tampered := move
	tampered.Nonce = 2
	got, err := Recover(tampered, sig)
	require.NoError(t, err)
	require.NotEqual(t, crypto.PubkeyToAddress(key.PublicKey), got)
}
