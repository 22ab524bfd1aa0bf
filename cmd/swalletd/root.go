package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "swalletd",
		Short: "Smart Wallet Node Daemon",
	}

	rootCmd.PersistentFlags().String(flagHome, defaultHome(), "node home directory")

	InitRootCmd(rootCmd) // add subcommands like `start` and `version`

	return rootCmd
}

const flagHome = "home"

func defaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".swalletd"
	}
	return filepath.Join(home, ".swalletd")
}
