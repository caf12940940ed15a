package hasher

import "encoding/base64"

// Hasher encodes passwords for storage and compares submitted passwords
// against stored values. The encoding is deterministic base64, not a
// cryptographic hash; swapping in a real KDF is an explicit non-goal here.
type Hasher struct{}

func New() *Hasher {
	return &Hasher{}
}

// Hash returns the storage encoding of password. Same input always yields
// the same output; it never fails.
func (h *Hasher) Hash(password string) string {
	return base64.StdEncoding.EncodeToString([]byte(password))
}

// Compare recomputes the encoding of password and checks plain string
// equality against hash.
func (h *Hasher) Compare(password, hash string) bool {
	return h.Hash(password) == hash
}
