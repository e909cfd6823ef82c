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
	isLoggedIn() bool
	Signup(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Plans(ctx context.Context) error
	Branches(ctx context.Context) error
	BranchDetails(ctx context.Context, ref string) error
	Search(ctx context.Context) error
	Enroll(ctx context.Context) error
	Confirmation(ctx context.Context) error
	Dashboard(ctx context.Context) error
	Billing(ctx context.Context) error
	Receipt(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Visit(ctx context.Context) error
	BMI(ctx context.Context) error
	Calories(ctx context.Context) error
	Records(ctx context.Context) error
	Reset(ctx context.Context) error
}

const (
	guestHelp  = "Available commands: signup, login, plans, branches, branch <id|slug>, search, visit, bmi, calories, enroll, records, reset, exit"
	memberHelp = "Available commands: plans, branches, branch <id|slug>, search, enroll, confirmation, dashboard, billing, receipt, profile, editprofile, visit, bmi, calories, records, reset, logout, exit"
)

// runREPL starts a simple read–eval–print loop for the GymKeeper CLI.
//
// It reads a line from reader, parses the first token as the command, and
// dispatches to methods on 'a'. Unknown commands are reported back to the
// user. The loop exits on EOF or when the user types "exit" or "quit".
//
// Command handlers print their own results. A returned error is reported
// once here and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("gym (%s)> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var handler func(context.Context) error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(memberHelp)
			} else {
				printlnFn(guestHelp)
			}
			continue

		case "signup", "register":
			handler = a.Signup
		case "login":
			handler = a.Login
		case "logout":
			handler = a.Logout
		case "plans":
			handler = a.Plans
		case "branches":
			handler = a.Branches
		case "branch":
			ref := ""
			if len(parts) > 1 {
				ref = parts[1]
			}
			handler = func(ctx context.Context) error { return a.BranchDetails(ctx, ref) }
		case "search":
			handler = a.Search
		case "enroll":
			handler = a.Enroll
		case "confirmation":
			handler = a.Confirmation
		case "dashboard":
			handler = a.Dashboard
		case "billing":
			handler = a.Billing
		case "receipt":
			handler = a.Receipt
		case "profile":
			handler = a.Profile
		case "editprofile":
			handler = a.EditProfile
		case "visit":
			handler = a.Visit
		case "bmi":
			handler = a.BMI
		case "calories":
			handler = a.Calories
		case "records":
			handler = a.Records
		case "reset":
			handler = a.Reset

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
			continue
		}

		if err := handler(ctx); err != nil {
			printlnFn("Error:", err)
		}
	}
}
