package util

import (
	"time"

	"golang.org/x/exp/rand"
)

var letters = []rune("abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789")

// RandomString generates a random alphanumeric string of length n.
func RandomString(n int) string {
	r := rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	b := make([]rune, n)
	for i := range b {
		b[i] = letters[r.Intn(len(letters))]
	}
	return string(b)
}
