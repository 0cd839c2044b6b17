package cli

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database"
	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/database/users"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// DeleteUserCommand removes an account together with its books,
// categories and uploaded files. There is no web UI for this.
type DeleteUserCommand struct {
	Username     string
	DatabasePath string
	UploadsDir   string
	KeepFiles    bool
}

func NewDeleteUserCommand() *DeleteUserCommand {
	return &DeleteUserCommand{}
}

func (cmd *DeleteUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("delete-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username of the account to delete (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.UploadsDir, "uploads", config.DefaultUploadsDir, "Path to the uploads directory")
	fs.BoolVar(&cmd.KeepFiles, "keep-files", false, "Leave the user's uploaded files on disk")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s delete-user -username <name> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Delete a user account and everything it owns.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" {
		return fmt.Errorf("required flag -username not provided")
	}

	return nil
}

func (cmd *DeleteUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	usersRepo := users.NewRepository(db.DB)
	booksRepo := books.NewRepository(db.DB)

	user, err := usersRepo.GetByUsername(cmd.Username)
	if err != nil {
		return fmt.Errorf("user %q not found", cmd.Username)
	}

	// Collect file names before the rows go away.
	var fileNames []string
	if !cmd.KeepFiles {
		ownedBooks, err := booksRepo.List(user.ID, books.Filter{})
		if err != nil {
			return fmt.Errorf("failed to list user's books: %w", err)
		}
		for _, book := range ownedBooks {
			if book.HasFile() {
				fileNames = append(fileNames, book.FileName)
			}
		}
	}

	if err := usersRepo.Delete(user.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	removed := 0
	if len(fileNames) > 0 {
		store, err := uploads.NewStore(cmd.UploadsDir, 0)
		if err != nil {
			return fmt.Errorf("failed to open uploads dir: %w", err)
		}
		for _, name := range fileNames {
			if err := store.Remove(name); err != nil {
				log.Printf("WARNING: could not remove file %s: %v", name, err)
				continue
			}
			removed++
		}
	}

	fmt.Printf("Deleted user %q and removed %d file(s)\n", cmd.Username, removed)
	return nil
}
