// Package invitecode generates the short tokens that admit users into a workspace.
package invitecode

import (
	"crypto/rand"
	"math/big"
)

// DefaultLength is the code length handed out to new and rotated workspaces.
const DefaultLength = 6

// Alphabet is the fixed set every generated character is drawn from.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a code of exactly length characters, each chosen
// independently and uniformly from Alphabet. Codes are not checked for
// uniqueness across workspaces.
func Generate(length int) string {
	if length <= 0 {
		return ""
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			panic("invitecode: reading random source: " + err.Error())
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf)
}
