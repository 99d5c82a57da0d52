package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"server-sweep/internal/config"
)

// envsCmd represents the envs command.
var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List configured environments",
	Long:  "List the environments defined in the config file together with their inventory driver and target.",
	Run:   runEnvs,
}

func init() {
	rootCmd.AddCommand(envsCmd)
}

func runEnvs(cmd *cobra.Command, args []string) {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ failed to load config: %v\n", err)
		os.Exit(1)
	}
	printEnvironments(os.Stdout, cfg)
}

// printEnvironments writes one line per environment, sorted by name.
func printEnvironments(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Available connections:")
	for _, name := range cfg.EnvironmentNames() {
		env := cfg.Environments[name]
		fmt.Fprintf(w, "- %-12s %-8s %s\n", name, env.Driver, environmentTarget(env))
	}
}

// environmentTarget describes where an environment's inventory lives without exposing secrets.
func environmentTarget(env config.EnvironmentConfig) string {
	switch env.Driver {
	case config.DriverPostgres:
		if env.DSN != "" {
			return "(dsn)"
		}
		return fmt.Sprintf("%s:%d/%s", env.Host, env.Port, env.Database)
	case config.DriverHTTP:
		return env.Endpoint
	case config.DriverFile:
		return env.Path
	default:
		return ""
	}
}
