// Package cli implements the administrative commands: account
// provisioning and removal, and the orphaned-upload sweep.
package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/bookmaster/bookmaster/internal/auth"
	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database"
	"github.com/bookmaster/bookmaster/internal/database/users"
)

// CreateUserCommand provisions an account from the shell. Registration
// is also available through the web UI; this exists for scripted setup.
type CreateUserCommand struct {
	Username     string
	Password     string
	DatabasePath string
	BcryptCost   int
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.IntVar(&cmd.BcryptCost, "bcrypt-cost", 12, "bcrypt cost factor for the password hash")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Password == "" {
		return fmt.Errorf("required flags -username and -password not provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	service := auth.NewService(users.NewRepository(db.DB), config.Auth{BcryptCost: cmd.BcryptCost})

	user, err := service.Register(cmd.Username, cmd.Password, cmd.Password)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Printf("Created user %q (ID %d)\n", user.Username, user.ID)
	return nil
}
