package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL dispatches to.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error

	AddTransaction(ctx context.Context) error
	ListTransactions(ctx context.Context, args []string) error
	DeleteTransaction(ctx context.Context, args []string) error
	AddAsset(ctx context.Context) error
	ListAssets(ctx context.Context, args []string) error
	DeleteAsset(ctx context.Context, args []string) error

	ListMembers(ctx context.Context) error
	AddMember(ctx context.Context) error
	DeleteMember(ctx context.Context, args []string) error
	ListAccounts(ctx context.Context) error
	AddAccount(ctx context.Context) error

	Stats(ctx context.Context, args []string) error
	Report(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Import(ctx context.Context, args []string) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = `Available commands:
  addtx | list [type=.. category=.. from=.. to=.. member=.. tag=..] | deltx <id>
  addasset | assets [type=..] | delasset <id>
  members | addmember | delmember <id>
  accounts | addaccount
  stats [week|month|year] | report [months]
  export [name] | import [name] [add|replace] [skip|overwrite]
  logout | help | exit`
)

// runREPL reads commands line by line from reader and dispatches them to a.
//
// The loop exits on EOF or when the user types "exit" or "quit". Commands
// other than register, login, help and exit require a session. Errors
// returned by handlers are printed and the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("budget%s> ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || strings.TrimSpace(line) == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue
		case "exit", "quit":
			printlnFn("Bye!")
			return
		case "register":
			report(a.Register(ctx))
			continue
		case "login":
			report(a.Login(ctx))
			continue
		}

		if !a.isLoggedIn() {
			printlnFn("Please login first (type 'help' for commands)")
			continue
		}

		switch cmd {
		case "logout":
			report(a.Logout(ctx))
		case "addtx":
			report(a.AddTransaction(ctx))
		case "l", "list":
			report(a.ListTransactions(ctx, args))
		case "deltx":
			report(a.DeleteTransaction(ctx, args))
		case "addasset":
			report(a.AddAsset(ctx))
		case "assets":
			report(a.ListAssets(ctx, args))
		case "delasset":
			report(a.DeleteAsset(ctx, args))
		case "members":
			report(a.ListMembers(ctx))
		case "addmember":
			report(a.AddMember(ctx))
		case "delmember":
			report(a.DeleteMember(ctx, args))
		case "accounts":
			report(a.ListAccounts(ctx))
		case "addaccount":
			report(a.AddAccount(ctx))
		case "stats":
			report(a.Stats(ctx, args))
		case "report":
			report(a.Report(ctx, args))
		case "export":
			report(a.Export(ctx, args))
		case "import":
			report(a.Import(ctx, args))
		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}
