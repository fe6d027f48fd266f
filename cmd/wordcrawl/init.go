package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/nao1215/wordcrawl/internal/config"
	"github.com/spf13/cobra"
)

//go:embed templates/wordcrawl.json
var configTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new wordcrawl configuration file",
		Long: `Initialize creates a new wordcrawl.json configuration file in the current directory.

The generated file includes:
- Start pages and the depth and time budget of the crawl
- Patterns for URLs and words to ignore
- An example of per-site request headers

Examples:
  # Create wordcrawl.json in current directory
  wordcrawl init

  # Create config file at a specific path
  wordcrawl init -o crawls/golang.json

  # Force overwrite existing file
  wordcrawl init -f`,
		Args: cobra.NoArgs,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultConfigFile,
		"Output file path for the configuration")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing configuration file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("configuration file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	content, err := configTemplate.ReadFile("templates/wordcrawl.json")
	if err != nil {
		return fmt.Errorf("failed to read config template: %w", err)
	}

	if err := ensureParentDir(outputPath); err != nil {
		return err
	}

	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return fmt.Errorf("failed to write configuration file: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Created configuration file: %s\n", outputPath)
	fmt.Fprintln(out, "\nEdit this file to set:")
	fmt.Fprintln(out, "  - The start pages of the crawl")
	fmt.Fprintln(out, "  - Depth, timeout and ranking size")
	fmt.Fprintln(out, "  - URL and word patterns to ignore")
	fmt.Fprintf(out, "\nThen run 'wordcrawl crawl %s'.\n", outputPath)

	return nil
}

// ensureParentDir creates the directory that will hold path.
func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	return nil
}
