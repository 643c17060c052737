// Command tokenctl issues and inspects tokens offline using the same
// configuration as authd.
//
//	tokenctl issue --user-id 42 --email ada@example.com --role ADMIN --pair
//	tokenctl verify eyJhbGciOi...
//	tokenctl verify --refresh eyJhbGciOi...
//	tokenctl refresh eyJhbGciOi...
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/tokenkit/auth/jwt"
)

// Exit codes.
const (
	exitError    = 1
	exitRejected = 2
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}

func execute(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return 0
	}

	var tokenErr *jwt.Error
	if errors.As(err, &tokenErr) && tokenErr.Kind != jwt.KindConfig {
		fmt.Fprintf(stderr, "rejected: %s: %v\n", tokenErr.Kind, err)
		return exitRejected
	}
	if kind := jwt.KindOf(err); kind != jwt.KindUnknown {
		fmt.Fprintf(stderr, "error: %s: %v\n", kind, err)
	} else {
		fmt.Fprintf(stderr, "error: %v\n", err)
	}
	return exitError
}
