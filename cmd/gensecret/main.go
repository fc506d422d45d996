// Command gensecret prints a random key suitable for the SECRET_KEY
// setting used to sign access and refresh tokens.
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/pflag"
)

func main() {
	length := pflag.IntP("length", "n", 32, "key length in bytes")
	pflag.Parse()

	if *length <= 0 {
		fmt.Fprintln(os.Stderr, "length must be positive")
		os.Exit(1)
	}

	key := make([]byte, *length)
	if _, err := rand.Read(key); err != nil {
		fmt.Fprintf(os.Stderr, "generate secret key: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hex.EncodeToString(key))
}
