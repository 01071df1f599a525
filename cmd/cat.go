package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fivemoreminix/texdown/console"
	"github.com/fivemoreminix/texdown/ui/buffer"
)

var catCmd = &cobra.Command{
	Use:   "cat FILE...",
	Short: "Print files with highlighting to standard output",
	Long: `Print files to standard output. Texdown files are colored with ANSI
escape sequences; other files are printed as they are.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCat,
}

func init() {
	catCmd.Flags().String("color", "auto", "when to color output: auto, always or never")
}

func runCat(cmd *cobra.Command, args []string) error {
	lang, err := loadLanguage(cfg.Rules)
	if err != nil {
		return err
	}
	p := console.NewPrinter(lang.Catalog, lang.Styles)
	mode, _ := cmd.Flags().GetString("color") // the root command runs cat without the flag
	switch mode {
	case "", "auto":
	case "always":
		p.SetColor(true)
	case "never":
		p.SetColor(false)
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}

	out := cmd.OutOrStdout()
	for _, path := range args {
		contents, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if buffer.DetectLanguage(path, contents, lang) == nil {
			_, err = out.Write(contents)
		} else {
			err = p.Fprint(out, string(contents))
		}
		if err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
