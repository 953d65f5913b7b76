package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/valter-silva-au/datawork/internal/core"
	"github.com/valter-silva-au/datawork/pkg/models"
)

// WorkspaceInit is the WorkspaceInitializer used by the init command.
// Set during application wiring.
var WorkspaceInit core.WorkspaceInitializer

var initCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Initialize a datawork workspace",
	Long: `Write a .dwconfig (and a .gitignore for the local data files) into the
given directory, defaulting to the current one.

Safe to run on an existing workspace: files that already exist are skipped
and not overwritten.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if WorkspaceInit == nil {
			return fmt.Errorf("workspace initializer not initialized")
		}

		basePath := "."
		if len(args) > 0 {
			basePath = args[0]
		}
		absPath, err := filepath.Abs(basePath)
		if err != nil {
			return fmt.Errorf("resolving path: %w", err)
		}

		backend, _ := cmd.Flags().GetString("backend")
		codec, _ := cmd.Flags().GetString("codec")
		scheme, _ := cmd.Flags().GetString("id-scheme")
		prefix, _ := cmd.Flags().GetString("prefix")

		result, err := WorkspaceInit.Init(core.InitConfig{
			BasePath: absPath,
			Backend:  models.StoreBackend(strings.ToLower(backend)),
			Codec:    strings.ToLower(codec),
			IDScheme: models.IDScheme(strings.ToLower(scheme)),
			Prefix:   prefix,
		})
		if err != nil {
			return fmt.Errorf("initializing workspace: %w", err)
		}

		if len(result.Created) > 0 {
			fmt.Println("Created:")
			for _, p := range result.Created {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}
		if len(result.Skipped) > 0 {
			fmt.Println("Skipped (already exist):")
			for _, p := range result.Skipped {
				rel, _ := filepath.Rel(absPath, p)
				fmt.Printf("  %s\n", rel)
			}
		}

		fmt.Printf("\nWorkspace initialized at %s\n", absPath)
		return nil
	},
}

func init() {
	initCmd.Flags().String("backend", "file", "Store backend (memory, file, redis, sqlite)")
	initCmd.Flags().String("codec", "yaml", "Collection encoding (yaml, json)")
	initCmd.Flags().String("id-scheme", "uuid", "Task ID scheme (uuid, sequence)")
	initCmd.Flags().String("prefix", "TASK", "Task ID prefix for the sequence scheme")
	rootCmd.AddCommand(initCmd)
}
