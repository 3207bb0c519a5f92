package main

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vmassess/bomgen/internal/cli"
	"github.com/vmassess/bomgen/pkg/log"
)

func main() {
	logger := log.InitLog(zap.NewAtomicLevelAt(zap.WarnLevel))
	defer func() { _ = logger.Sync() }()
	undo := zap.ReplaceGlobals(logger)
	defer undo()

	command := NewBomgenCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewBomgenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bomgen [flags] [options]",
		Short: "bomgen turns virtualization inventory exports into cost reports.",
		Run: func(cmd *cobra.Command, args []string) {
			_ = cmd.Help()
			os.Exit(1)
		},
	}
	cmd.AddCommand(cli.NewCmdProcess())
	cmd.AddCommand(cli.NewCmdVersion())

	return cmd
}
