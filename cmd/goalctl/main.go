package main

import (
	"os"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"github.com/templui/smsgoals/cmd/goalctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "goalctl",
		Short:        "Operations tool for the SMS goal tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.RunCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.TokenCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
