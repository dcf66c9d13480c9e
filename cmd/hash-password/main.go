// Command hash-password prints a bcrypt hash for ADMIN_PASSWORD_HASH.
package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"

	"github.com/stemsi/smartexam/internal/config"
	"github.com/stemsi/smartexam/internal/service"
)

func main() {
	cfg := config.Load()
	auth := service.NewAuthService(cfg)

	fmt.Fprintln(os.Stderr, "=== Hash Admin Password ===")

	fmt.Fprint(os.Stderr, "Enter Password: ")
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error reading password")
		os.Exit(1)
	}
	if len(password) < 6 {
		fmt.Fprintln(os.Stderr, "Error: Password must be at least 6 characters")
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, "Repeat Password: ")
	again, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil || !bytes.Equal(password, again) {
		fmt.Fprintln(os.Stderr, "Error: Passwords do not match")
		os.Exit(1)
	}

	hash, err := auth.HashPassword(string(password))
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		fmt.Fprintln(os.Stderr, "Error: Password must be at most 72 bytes")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("ADMIN_PASSWORD_HASH=%s\n", hash)
}
