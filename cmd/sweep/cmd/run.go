package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/prometheus/common/version"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"server-sweep/internal/config"
	"server-sweep/internal/inventory"
	"server-sweep/internal/logging"
	"server-sweep/internal/model"
	"server-sweep/internal/probe"
	"server-sweep/internal/report"
	"server-sweep/internal/service"
)

// Exit codes
const (
	exitOK          = 0
	exitFatal       = 1
	exitProbeFailed = 2
)

// Command flags
var (
	envName     string   // Environment to sweep
	outputDir   string   // Output directory for reports
	formats     []string // Output formats (text, excel, html)
	concurrency int      // Probe concurrency override
	debugMode   bool     // Capture ping diagnostics
)

// runCmd represents the run command.
var runCmd = &cobra.Command{
	Use:   "run [environment]",
	Short: "Sweep the inventory of an environment",
	Long: `Run one reachability sweep:
1. Load the inventory of the selected environment
2. Port-probe active servers, ping inactive tpa/hsn and tms servers
3. Print per-category totals and the failed hosts
4. Optionally write text, Excel and HTML reports

When no environment is given and stdin is a terminal, the configured
environments are listed and you are asked to pick one.

Exit status is 0 when every probe succeeded, 2 when at least one probe
failed and 1 on any fatal error.

Examples:
  # Sweep the prod environment
  sweep run prod -c config.yaml

  # Pick the environment interactively
  sweep run

  # Write Excel and HTML reports to ./reports
  sweep run dr -f excel,html -o ./reports

  # Sequential sweep with ping diagnostics
  sweep run dev --concurrency 1 --debug`,
	Args: cobra.MaximumNArgs(1),
	Run:  runSweep,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&envName, "env", "e", "", "environment name (alternative to the positional argument)")
	runCmd.Flags().StringSliceVarP(&formats, "format", "f", nil, "report formats (text,excel,html), comma separated")
	runCmd.Flags().StringVarP(&outputDir, "output", "o", "", "report output directory")
	runCmd.Flags().IntVar(&concurrency, "concurrency", 0, "maximum probes in flight (overrides sweep.concurrency)")
	runCmd.Flags().BoolVar(&debugMode, "debug", false, "log ping diagnostics for failed echo probes")
}

// runSweep executes the complete sweep workflow.
func runSweep(cmd *cobra.Command, args []string) {
	os.Exit(sweep(cmd.Context(), args, os.Stdin, os.Stdout))
}

func sweep(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) int {
	// Step 1: Load configuration
	configPath := GetConfigFile()
	cfg, err := config.Load(configPath)
	if err != nil {
		tmpLogger := logging.Console("error")
		tmpLogger.Error().Err(err).Str("path", configPath).Msg("failed to load config")
		fmt.Fprintf(os.Stderr, "❌ failed to load config: %v\n", err)
		return exitFatal
	}

	// Step 2: Initialize logger; command line flags override the config file
	if debugMode {
		cfg.Debug = true
	}
	if GetLogLevel() != "" {
		cfg.Logging.Level = GetLogLevel()
	} else if cfg.Debug {
		cfg.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ failed to initialize logging: %v\n", err)
		return exitFatal
	}
	logger.Debug().
		Str("config_path", configPath).
		Str("log_level", cfg.Logging.Level).
		Msg("configuration loaded successfully")

	// Step 3: Resolve environment
	requested := envName
	if len(args) > 0 {
		requested = args[0]
	}
	if requested == "" {
		if !isInteractive() {
			fmt.Fprintf(os.Stderr, "❌ no environment given, available environments: %s\n",
				strings.Join(cfg.EnvironmentNames(), ", "))
			return exitFatal
		}
		requested, err = promptEnvironment(stdin, stdout, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "❌ %v\n", err)
			return exitFatal
		}
	}
	name, env, err := cfg.Environment(requested)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitFatal
	}
	logger = logger.With().Str("environment", name).Logger()

	// Step 4: Build inventory source and sweep engine
	src, err := inventory.New(env, &cfg.HTTP.Retry, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitFatal
	}

	sweeper := buildSweeper(cfg, logger)
	runner, err := service.NewRunner(cfg, sweeper, logger,
		service.WithVersion(versionString()),
		service.WithEnvironment(name),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitFatal
	}

	// Step 5: Run
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	if cfg.Sweep.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Sweep.Timeout)
		defer cancel()
	}

	result, err := runner.Run(ctx, src)
	if err != nil {
		if errors.Is(err, service.ErrInventoryUnavailable) {
			fmt.Fprintf(os.Stderr, "❌ error connecting to inventory (%s): %v\n", src.Name(), err)
		} else {
			fmt.Fprintf(os.Stderr, "❌ sweep failed: %v\n", err)
		}
		return exitFatal
	}

	// Step 6: Print summary
	printSummary(stdout, result)

	// Step 7: Write reports
	if err := writeReports(cfg, runner.GetTimezone(), result, stdout, logger); err != nil {
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		return exitFatal
	}

	return exitCode(result)
}

// buildSweeper wires the probe strategies from the probe and sweep configuration.
func buildSweeper(cfg *config.Config, logger zerolog.Logger) *service.Sweeper {
	portProber := probe.NewPortProber(cfg.Probe.Port, cfg.Probe.ConnectTimeout)

	var echoOpts []probe.EchoOption
	if cfg.Debug || cfg.Probe.CaptureOutput {
		probeLogger := logger.With().Str("component", "echo-probe").Logger()
		echoOpts = append(echoOpts, probe.WithDiagnostics(func(d probe.Diagnostic) {
			probeLogger.Warn().
				Str("address", d.Address).
				Str("command", d.CommandLine()).
				Int("exit_code", d.ExitCode).
				Str("stdout", d.Stdout).
				Str("stderr", d.Stderr).
				Str("error", d.Err).
				Msg("echo probe failed")
		}))
	}
	echoProber := probe.NewEchoProber(cfg.Probe.PingCommand, cfg.Probe.PingTimeout, echoOpts...)

	workers := cfg.Sweep.Concurrency
	if concurrency > 0 {
		workers = concurrency
	}

	return service.NewSweeper(portProber, echoProber, logger,
		service.WithConcurrency(workers),
		service.WithRateLimit(cfg.Sweep.RateLimit),
	)
}

// isInteractive reports whether stdin is a terminal.
func isInteractive() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// promptEnvironment lists the configured environments and reads one name from in.
func promptEnvironment(in io.Reader, out io.Writer, cfg *config.Config) (string, error) {
	printEnvironments(out, cfg)
	fmt.Fprint(out, "Enter the connection name: ")

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("no environment selected: %w", err)
	}
	name := strings.ToLower(strings.TrimSpace(line))
	if name == "" {
		return "", fmt.Errorf("no environment selected, choose from: %s",
			strings.Join(cfg.EnvironmentNames(), ", "))
	}
	return name, nil
}

// printSummary prints the rendered result and run metadata.
func printSummary(w io.Writer, result *model.SweepResult) {
	text := report.Render(result)
	if text == "" {
		text = "\nNo servers were probed.\n"
	}
	fmt.Fprint(w, text)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Environment: %s  Run ID: %s  Duration: %s\n",
		result.Environment, result.RunID, result.Duration.Round(time.Millisecond))
}

// writeReports writes the configured report formats, if any.
func writeReports(cfg *config.Config, tz *time.Location, result *model.SweepResult, stdout io.Writer, logger zerolog.Logger) error {
	outputFormats := resolveFormats(cfg)
	if len(outputFormats) == 0 {
		return nil
	}

	outputPath := resolveOutputDir(cfg)
	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputPath, err)
	}

	registry := report.NewRegistry(tz, cfg.Report.HTMLTemplate)
	filenameBase := report.GenerateFilename(cfg.Report.FilenameTemplate, result.Environment, result.StartedAt, tz)

	fmt.Fprintln(stdout, "\n📄 Reports:")
	failed := 0
	for _, format := range outputFormats {
		writer, err := registry.Get(format)
		if err != nil {
			logger.Error().Err(err).Str("format", format).Msg("unsupported format")
			fmt.Fprintf(os.Stderr, "   ❌ %v\n", err)
			failed++
			continue
		}

		reportPath := filepath.Join(outputPath, filenameBase+report.Extension(format))
		if err := writer.Write(result, reportPath); err != nil {
			logger.Error().Err(err).Str("format", format).Str("path", reportPath).Msg("failed to generate report")
			fmt.Fprintf(os.Stderr, "   ❌ %s report failed: %v\n", format, err)
			failed++
			continue
		}

		logger.Info().Str("format", format).Str("path", reportPath).Msg("report generated successfully")
		fmt.Fprintf(stdout, "   ✅ %s\n", reportPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d reports could not be written", failed, len(outputFormats))
	}
	return nil
}

// resolveFormats determines the output formats to use.
// Command line flags take precedence over config file.
func resolveFormats(cfg *config.Config) []string {
	if len(formats) > 0 {
		return formats
	}
	return cfg.Report.Formats
}

// resolveOutputDir determines the output directory to use.
// Command line flags take precedence over config file.
func resolveOutputDir(cfg *config.Config) string {
	if outputDir != "" {
		return outputDir
	}
	if cfg.Report.OutputDir != "" {
		return cfg.Report.OutputDir
	}
	return "./reports" // default
}

// exitCode maps a sweep result to the process exit status.
func exitCode(result *model.SweepResult) int {
	if result.HasFailures() {
		return exitProbeFailed
	}
	return exitOK
}

// versionString returns the build version, "dev" when not stamped.
func versionString() string {
	if version.Version == "" {
		return "dev"
	}
	return version.Version
}
