package token

import (
	"crypto/rand"
	"strconv"
	"time"
)

const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Generator produces opaque session tokens of the form
// {userID}-{millisecondTimestamp}-{randomSuffix}. Tokens are unique with
// high probability but carry no claims; the session store is the source of
// truth for their validity.
type Generator struct {
	suffixLen int
}

func NewGenerator(suffixLen int) *Generator {
	if suffixLen <= 0 {
		suffixLen = 32
	}
	return &Generator{suffixLen: suffixLen}
}

// Generate builds a token for the given user id. The id format is not
// validated; that is the caller's responsibility.
func (g *Generator) Generate(userID string) string {
	buf := make([]byte, g.suffixLen)
	if _, err := rand.Read(buf); err != nil {
		panic("token: crypto/rand unavailable: " + err.Error())
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return userID + "-" + strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + string(buf)
}
