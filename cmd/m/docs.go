package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Generate man pages and markdown command docs",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runDocsCmd,
}

func init() {
	rootCmd.AddCommand(docsCmd)
	docsCmd.Flags().String("dir", "./docs", "Output directory")
}

func runDocsCmd(cmd *cobra.Command, args []string) error {
	dir, _ := cmd.Flags().GetString("dir")
	manDir := filepath.Join(dir, "man")
	mdDir := filepath.Join(dir, "md")
	for _, d := range []string{manDir, mdDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return err
		}
	}

	header := &doc.GenManHeader{Title: "M", Section: "1"}
	if err := doc.GenManTree(rootCmd, header, manDir); err != nil {
		return fmt.Errorf("man pages: %w", err)
	}
	if err := doc.GenMarkdownTree(rootCmd, mdDir); err != nil {
		return fmt.Errorf("markdown: %w", err)
	}

	fmt.Printf("Wrote docs to %s\n", dir)
	return nil
}
