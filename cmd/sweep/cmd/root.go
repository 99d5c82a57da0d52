// Package cmd provides CLI commands for the reachability sweep tool.
package cmd

import (
	"os"

	"github.com/prometheus/common/version"
	"github.com/spf13/cobra"
)

const binName = "sweep"

// Global flags
var (
	cfgFile  string // Config file path
	logLevel string // Log level
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   binName,
	Short: "Server reachability sweep",
	Long: `sweep loads the server inventory of a named environment and checks
that every server is where the inventory says it is:

  - active servers must accept a TCP connection on the probe port (1025)
  - inactive tpa/hsn and tms servers are pinged once

Failed hosts are listed per category and can be written to text, Excel
and HTML reports.`,
	Version: version.Version,
	// Run displays help when called without any subcommands
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command and its flags.
func init() {
	// Global flags available to all commands
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	// Customize version template
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// GetConfigFile returns the config file path from command line flag.
func GetConfigFile() string {
	return cfgFile
}

// GetLogLevel returns the log level from command line flag, or "" when unset.
func GetLogLevel() string {
	return logLevel
}

// GetVersionInfo returns formatted version information.
func GetVersionInfo() string {
	return version.Print(binName)
}
