package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/koscakluka/ema-assist/internal/config"
)

var (
	// Global flags
	configFile string
	envDir     string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ema-assist",
	Short: "Voice task assistants backed by tool calls",
	Long: `ema-assist runs task-oriented voice assistants: a barista, a tutor,
a sales development rep, a fraud alert agent, a grocery shop and a
game master. Each conversation exposes a tool set to a language model
and narrates every tool outcome through text to speech.

Run "ema-assist serve" to expose conversations over HTTP, or
"ema-assist console --assistant tutor" to drive one by hand.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadDotEnv(envDir); err != nil {
			return err
		}
		loaded, err := config.Load(viper.New(), configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (default ./ema-assist.yaml)")
	rootCmd.PersistentFlags().StringVar(&envDir, "env-dir", ".", "directory holding .env and .env.local")

	rootCmd.AddCommand(serveCmd, consoleCmd, fraudCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
