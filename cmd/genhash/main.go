package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Small helper for seeding operator accounts: prints the bcrypt hash of
// the password given as the first argument.
func generatePasswordHash(password string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: genhash <password>")
		os.Exit(1)
	}
	hash, err := generatePasswordHash(os.Args[1], 12)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
