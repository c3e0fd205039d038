package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "satchel",
	Short: "Satchel runs data donation flows",
	Long:  `Satchel hosts consent-first data donation flows: participants pick a platform export, review the extracted tables, and decide what to donate.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "Log verbosity: debug, info, warn or error")
}
