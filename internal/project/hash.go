package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest — фиксированный 256-битный хеш, ключ кэша результатов.
type Digest [32]byte

func Sum(b []byte) Digest { return sha256.Sum256(b) }

// Combine хеширует части по порядку; каждая часть предваряется длиной,
// чтобы ("ab","c") и ("a","bc") давали разные ключи.
func Combine(parts ...[]byte) Digest {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		l := uint64(len(p))
		for i := range n {
			n[i] = byte(l >> (8 * i))
		}
		_, _ = h.Write(n[:])
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) Hex() string { return hex.EncodeToString(d[:]) }
