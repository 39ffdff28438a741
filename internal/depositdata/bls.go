package depositdata

import (
	"crypto/rand"
	"fmt"

	blst "github.com/supranational/blst/bindings/go"
)

var dst = []byte("BLS_SIG_BLS12381G2_XMD:SHA-256_SSWU_RO_POP_")

// Key is a BLS12-381 validator key.
type Key struct {
	sk *blst.SecretKey
}

// NewRandomKey creates a key from 32 bytes of random input key material.
func NewRandomKey() (*Key, error) {
	ikm := make([]byte, 32)
	if _, err := rand.Read(ikm); err != nil {
		return nil, err
	}
	return NewKey(ikm)
}

// NewKey derives a key from input key material of at least 32 bytes.
func NewKey(ikm []byte) (*Key, error) {
	if len(ikm) < 32 {
		return nil, fmt.Errorf("ikm too short: %d bytes", len(ikm))
	}
	sk := blst.KeyGen(ikm)
	if sk == nil {
		return nil, fmt.Errorf("failed to derive key")
	}
	return &Key{sk: sk}, nil
}

// PubKey returns the compressed public key.
func (k *Key) PubKey() []byte {
	return new(blst.P1Affine).From(k.sk).Compress()
}

// Sign returns the compressed signature of msg.
func (k *Key) Sign(msg []byte) []byte {
	return new(blst.P2Affine).Sign(k.sk, msg, dst).Compress()
}

// Zero wipes the secret key.
func (k *Key) Zero() {
	k.sk.Zeroize()
}

// VerifySignature checks a compressed signature against a compressed public key.
func VerifySignature(pub, sig, msg []byte) bool {
	pk := new(blst.P1Affine).Uncompress(pub)
	if pk == nil {
		return false
	}
	s := new(blst.P2Affine).Uncompress(sig)
	if s == nil {
		return false
	}
	return s.Verify(true, pk, true, msg, dst)
}
