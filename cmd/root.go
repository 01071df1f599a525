// Package cmd holds the texdown command line: the interactive viewer and
// the cat command.
package cmd

import (
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	version = "dev"
	cfgFile string
	cfg     Config
	trace   io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "texdown FILE...",
	Short: "A terminal viewer for texdown documents",
	Long: `View texdown documents with syntax highlighting. Tab switches between
files, q quits. When standard output is not a terminal the files are
printed with highlighting, as with the cat command.`,
	Version:           version,
	Args:              cobra.MinimumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(*cobra.Command, []string) {
		if trace != nil {
			_ = trace.Close()
		}
	},
	RunE: runView,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ~/.config/texdown/config.yaml)")
	rootCmd.PersistentFlags().String("rules", "",
		"YAML rule table replacing the built-in one")
	rootCmd.PersistentFlags().String("trace", "",
		"append trace output to this file")
	rootCmd.Flags().Int("tab-size", 4, "columns per tab stop")
	rootCmd.Flags().Bool("no-line-numbers", false, "hide the line number column")
	rootCmd.Flags().Bool("no-watch", false, "do not reload files when they change")

	// Bind flags to viper
	_ = viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	_ = viper.BindPFlag("trace", rootCmd.PersistentFlags().Lookup("trace"))
	_ = viper.BindPFlag("tab_size", rootCmd.Flags().Lookup("tab-size"))

	rootCmd.AddCommand(catCmd)
}

func initConfig(cmd *cobra.Command, _ []string) error {
	var err error
	if cfg, err = loadConfig(viper.GetViper(), cfgFile); err != nil {
		return err
	}
	// Negated flags
	if off, _ := cmd.Flags().GetBool("no-line-numbers"); off {
		cfg.LineNumbers = false
	}
	if off, _ := cmd.Flags().GetBool("no-watch"); off {
		cfg.Watch = false
	}
	trace, err = setupTracing(cfg.Trace)
	return err
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
