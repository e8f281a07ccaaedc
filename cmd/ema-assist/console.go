package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koscakluka/ema-assist/core/assistants"
	"github.com/koscakluka/ema-assist/internal/console"
	"github.com/koscakluka/ema-assist/internal/logger"
)

var assistantName string

// consoleCmd drives one conversation from the terminal
var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Talk to one assistant from the terminal",
	Long: `Start a single conversation and play the language model by hand:
type tool calls, read the narrated results and watch the voice follow
mode changes. Logs go to the log file only.`,
	RunE: runConsole,
}

func init() {
	consoleCmd.Flags().StringVarP(&assistantName, "assistant", "a", string(assistants.Barista),
		fmt.Sprintf("assistant to talk to %v", assistants.Kinds()))
}

func runConsole(cmd *cobra.Command, args []string) error {
	kind, err := assistants.ParseKind(assistantName)
	if err != nil {
		return err
	}

	// stdout belongs to the terminal UI
	log := logger.NewFileLogger(cfg.Log.File)
	defer log.Close()

	ctx := cmd.Context()
	rt, err := newRuntime(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer rt.Close()

	conversation, err := rt.orchestrator.StartConversation(ctx, kind)
	if err != nil {
		return err
	}
	defer rt.orchestrator.EndConversation(conversation.ID(), "console closed")

	return console.Run(ctx, conversation)
}
