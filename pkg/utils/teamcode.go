package utils

import (
	"crypto/rand"
	"math/big"
)

// TeamCodeLength is the length of every generated team code.
const TeamCodeLength = 6

const teamCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateTeamCode returns a random 6-character uppercase alphanumeric code.
// Uniqueness is the caller's responsibility.
func GenerateTeamCode() string {
	code := make([]byte, TeamCodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(teamCodeAlphabet))))
		if err != nil {
			return ""
		}
		code[i] = teamCodeAlphabet[n.Int64()]
	}
	return string(code)
}
