// Command createuser provisions a user directly against the database,
// through the same creation contract as registration but with explicit
// public-access and readonly flags.
//
// Usage:
//
//	createuser [-c config.json] [-d dsn] <username> [password] [--public] [--readonly]
//
// When the password argument is omitted it is read from the terminal
// without echo.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/server/config"
	"github.com/dmitrijs2005/demeter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/demeter/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func usage() {
	fmt.Fprintf(os.Stderr, "usage: %s [-c config.json] [-d dsn] <username> [password] [--public] [--readonly]\n", os.Args[0])
	os.Exit(1)
}

type cliArgs struct {
	username     string
	password     string
	publicAccess bool
	readonly     bool
}

// parseArgs splits os.Args-style input into positionals and the two mode
// flags, skipping the config/DSN flags that config.LoadConfig owns.
func parseArgs(args []string) (*cliArgs, error) {
	parsed := &cliArgs{}
	var positionals []string

	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--public":
			parsed.publicAccess = true
		case arg == "--readonly":
			parsed.readonly = true
		case arg == "-c" || arg == "-config" || arg == "-d":
			i++ // skip the flag value
		case strings.HasPrefix(arg, "-"):
			if !strings.Contains(arg, "=") {
				return nil, fmt.Errorf("unknown flag %q", arg)
			}
		default:
			positionals = append(positionals, arg)
		}
	}

	if len(positionals) < 1 || len(positionals) > 2 {
		return nil, errors.New("expected <username> [password]")
	}
	parsed.username = positionals[0]
	if len(positionals) == 2 {
		parsed.password = positionals[1]
	}
	return parsed, nil
}

func promptPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Enter password: ")
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

func main() {
	ctx := context.Background()

	args, err := parseArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		usage()
	}

	if args.password == "" {
		pw, err := promptPassword()
		if err != nil {
			fmt.Fprintf(os.Stderr, "error reading password: %v\n", err)
			os.Exit(1)
		}
		args.password = pw
	}

	if err := services.ValidateCredentials(args.username, args.password); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg := config.LoadConfig()

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	us := services.NewUserService(db, repomanager.NewPostgresRepositoryManager(), cfg)

	user, err := us.CreateUser(ctx, args.username, args.password, args.publicAccess, args.readonly)
	if err != nil {
		if errors.Is(err, common.ErrorUsernameTaken) {
			fmt.Fprintf(os.Stderr, "error: username %q already exists\n", args.username)
		} else {
			fmt.Fprintf(os.Stderr, "error creating user: %v\n", err)
		}
		os.Exit(1)
	}

	fmt.Printf("user %q created (id=%d)\n", user.Username, user.ID)
	if user.PublicAccess {
		fmt.Println("public access: enabled (anonymous callers may read this task list)")
	} else {
		fmt.Println("public access: disabled")
	}
	if user.Readonly {
		fmt.Println("mode: readonly (cannot create, update or delete tasks)")
	} else {
		fmt.Println("mode: regular")
	}
}
