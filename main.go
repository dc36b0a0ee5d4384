package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"librarydb/library"
)

const defaultDBFile = "library.db"

// lib is opened by the root command before any subcommand runs and closed
// after it finishes.
var lib *library.Library

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "lms",
		Short:         "Library inventory, circulation, and billing over SQLite",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// .env is optional; process env wins when both are set.
			_ = godotenv.Load()

			path := os.Getenv("LMS_DB")
			if path == "" {
				path = defaultDBFile
			}

			level := slog.LevelWarn
			if os.Getenv("LMS_LOG") == "debug" {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

			var err error
			lib, err = library.NewLibrary(path, library.WithLogger(logger))
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if lib == nil {
				return nil
			}
			return lib.Close()
		},
	}

	root.AddCommand(
		newBooksCmd(),
		newMembersCmd(),
		newStaffCmd(),
		newLoansCmd(),
		newBillsCmd(),
		newReportCmd(),
		newExportCmd(),
	)
	return root
}

// stringPtr returns a pointer only when the flag was actually set, so unset
// flags mean "keep the previous value" in update requests.
func stringPtr(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func floatPtr(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func intPtr(cmd *cobra.Command, name string) *int {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetInt(name)
	return &v
}
