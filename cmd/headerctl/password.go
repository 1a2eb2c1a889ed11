package main

import (
	"fmt"
	"io"

	"github.com/peterh/liner"

	"github.com/kestrelfs/iosvault/pkg/header"
)

// promptPassword reads a password with input masked, the way cmd/sloty's
// REPL drives liner for its own interactive prompts — headerctl just needs
// a single masked line, not a full readline session, so history and tab
// completion are left at liner's defaults.
func promptPassword(prompt string) (*header.Protected, error) {
	line := liner.NewLiner()
	defer line.Close()

	pw, err := line.PasswordPrompt(prompt)
	if err != nil {
		return nil, fmt.Errorf("headerctl: read password: %w", err)
	}

	return header.NewProtected([]byte(pw)), nil
}

// confirmPassword prompts twice and fails loudly on mismatch, the way any
// "set a new password" flow must.
func confirmPassword(errOut io.Writer) (*header.Protected, error) {
	first, err := promptPassword("New password: ")
	if err != nil {
		return nil, err
	}

	second, err := promptPassword("Confirm password: ")
	if err != nil {
		first.Zero()
		return nil, err
	}

	if string(first.Expose()) != string(second.Expose()) {
		first.Zero()
		second.Zero()

		return nil, fmt.Errorf("headerctl: passwords did not match")
	}

	second.Zero()

	return first, nil
}
