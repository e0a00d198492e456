package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/codulingo/internal/config"
	"github.com/abhisek/codulingo/internal/store"
)

// cfg is loaded once before any command runs.
var cfg config.Config

var rootCmd = &cobra.Command{
	Use:   "codulingo",
	Short: "Learn HTML in your terminal",
	Long: `Codulingo: bite-sized, gamified HTML lessons in the terminal.

Built-in levels work offline. Set an LLM key (ANTHROPIC_API_KEY, OPENAI_API_KEY,
GEMINI_API_KEY or OPENROUTER_API_KEY, optionally in a .env file) to unlock
generated lessons and Byte_Bot hints.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
		if mode, _ := cmd.Flags().GetString("log-mode"); mode != "" {
			cfg.LogMode = mode
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, "")
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides CODULINGO_DB env var)")
	rootCmd.PersistentFlags().String("log-mode", "", "Log encoder: production or development (overrides CODULINGO_LOG_MODE)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(previewCmd)
	rootCmd.AddCommand(levelsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then CODULINGO_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.DBPath != "" {
		return cfg.DBPath, store.EnsureDir(cfg.DBPath)
	}
	return store.DefaultDBPath()
}
