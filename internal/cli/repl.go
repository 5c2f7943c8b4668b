package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	Join(ctx context.Context) error
	Apply(ctx context.Context) error
	Verify(ctx context.Context) error
	Resend(ctx context.Context) error
	Plans(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	SignOut(ctx context.Context) error
	Reset(ctx context.Context) error
}

// runREPL starts a simple read-eval-print loop for the onboarding CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands:
//   - help     — show available commands
//   - join     — create a member account (name, email, password)
//   - apply    — submit a partnership application (email, password)
//   - verify   — enter the emailed confirmation code
//   - resend   — request a new confirmation code
//   - plans    — open the plans view (requires a verified signup)
//   - whoami   — show the signed-in account
//   - reset    — abandon the current flow
//   - signout  — clear the session and sign out
//   - exit     — leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own messages. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("af %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		switch cmd {
		case "help":
			printlnFn("Available commands: join, apply, verify, resend, plans, whoami, reset, signout, exit")

		case "join":
			_ = a.Join(ctx)

		case "apply":
			_ = a.Apply(ctx)

		case "verify":
			_ = a.Verify(ctx)

		case "resend":
			_ = a.Resend(ctx)

		case "plans":
			_ = a.Plans(ctx)

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "reset":
			_ = a.Reset(ctx)

		case "signout":
			_ = a.SignOut(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
