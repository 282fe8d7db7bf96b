// Package cmd — normalize command.
// Runs the normalization engine on a single HTML fragment read from a file
// or stdin and prints the result.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/chronoform/core"
	"github.com/gaurav-prasanna/chronoform/core/normalize"
)

var (
	flagPlain bool
	flagBold  bool
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Normalize one HTML fragment and print it",
	Long: `Normalize reads an entry's HTML (from the given file, or stdin when no
file or "-" is given) and prints the normalized fragment to stdout.

Examples:
  chronoform normalize entry.html
  echo '<p>Plan:</p><p>Rest.</p>' | chronoform normalize --plain`,
	Args: cobra.MaximumNArgs(1),
	RunE: runNormalize,
}

func init() {
	rootCmd.AddCommand(normalizeCmd)

	normalizeCmd.Flags().BoolVar(&flagPlain, "plain", false, "Do not bold heading blocks")
	normalizeCmd.Flags().BoolVar(&flagBold, "bold", false, "Bold heading blocks (overrides BOLD_HEADINGS)")
}

func runNormalize(cmd *cobra.Command, args []string) error {
	if flagPlain && flagBold {
		return fmt.Errorf("--plain and --bold are mutually exclusive")
	}

	var in io.Reader = cmd.InOrStdin()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer f.Close()
		in = f
	}

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	style := core.Style{BoldHeadings: cfg.Format.BoldHeadings}
	switch {
	case flagPlain:
		style.BoldHeadings = false
	case flagBold:
		style.BoldHeadings = true
	}

	fmt.Fprintln(cmd.OutOrStdout(), normalize.Normalize(string(data), style))
	return nil
}
