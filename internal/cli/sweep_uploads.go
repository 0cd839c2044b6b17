package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/bookmaster/bookmaster/internal/catalog"
	"github.com/bookmaster/bookmaster/internal/config"
	"github.com/bookmaster/bookmaster/internal/database"
	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/uploads"
)

// SweepUploadsCommand removes uploaded files not referenced by any book.
// The same sweep can run on a schedule inside the server.
type SweepUploadsCommand struct {
	DatabasePath string
	UploadsDir   string
	DryRun       bool
}

func NewSweepUploadsCommand() *SweepUploadsCommand {
	return &SweepUploadsCommand{}
}

func (cmd *SweepUploadsCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("sweep-uploads", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")
	fs.StringVar(&cmd.UploadsDir, "uploads", config.DefaultUploadsDir, "Path to the uploads directory")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "List orphaned files without removing them")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s sweep-uploads [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Remove uploaded files that no book references.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *SweepUploadsCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	booksRepo := books.NewRepository(db.DB)
	store, err := uploads.NewStore(cmd.UploadsDir, 0)
	if err != nil {
		return fmt.Errorf("failed to open uploads dir: %w", err)
	}

	if cmd.DryRun {
		referenced, err := booksRepo.AllFileNames()
		if err != nil {
			return fmt.Errorf("failed to list referenced files: %w", err)
		}
		keep := make(map[string]bool, len(referenced))
		for _, name := range referenced {
			keep[name] = true
		}

		onDisk, err := store.List()
		if err != nil {
			return fmt.Errorf("failed to list stored files: %w", err)
		}

		orphans := 0
		for _, name := range onDisk {
			if !keep[name] {
				fmt.Printf("orphan: %s\n", name)
				orphans++
			}
		}
		fmt.Printf("Dry run complete: %d orphaned file(s) found\n", orphans)
		return nil
	}

	removed, err := catalog.NewSweepService(booksRepo, store).SweepOrphans()
	if err != nil {
		return fmt.Errorf("sweep failed: %w", err)
	}

	fmt.Printf("Removed %d orphaned file(s)\n", removed)
	return nil
}
