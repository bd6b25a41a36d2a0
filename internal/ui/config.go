package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/weekgrid/internal/config"
	"github.com/javiermolinar/weekgrid/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and allows editing. A running
weekgrid picks up saved changes without a restart.

Example:
  weekgrid config`,
		RunE: func(_ *cobra.Command, _ []string) error {
			return runConfigInteractive(os.Stdin, a.out, a.configPath)
		},
	}
}

func runConfigInteractive(in io.Reader, out io.Writer, configPath string) error {
	fmt.Fprintf(out, "Config file: %s\n\n", configPath)

	cfg, err := config.LoadFrom(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	_, fileErr := os.Stat(configPath)
	if os.IsNotExist(fileErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(configPath); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", configPath)
	}

	printConfig(out, cfg)

	reader := bufio.NewReader(in)
	if !promptYesNo(reader, out, "\nWould you like to edit the configuration?") {
		return nil
	}

	cfg.Schedule.Days = promptSlice(reader, out, "Days (comma-separated)", cfg.Schedule.Days)
	cfg.Schedule.DayStart = promptValue(reader, out, "Day start", cfg.Schedule.DayStart)
	cfg.Schedule.DayEnd = promptValue(reader, out, "Day end", cfg.Schedule.DayEnd)
	cfg.Grid.SnapMinutes = promptInt(reader, out, "Snap minutes", cfg.Grid.SnapMinutes)
	cfg.Grid.DefaultEventMinutes = promptInt(reader, out, "Default event minutes", cfg.Grid.DefaultEventMinutes)
	cfg.Storage.DBPath = promptValue(reader, out, "Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = promptTheme(reader, out, cfg.UI.Theme)
	cfg.Logging.Level = promptValue(reader, out, "Log level", cfg.Logging.Level)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(out io.Writer, cfg *config.Config) {
	fmt.Fprintln(out, "Current configuration:")
	fmt.Fprintln(out, "──────────────────────")
	fmt.Fprintln(out, "[schedule]")
	fmt.Fprintf(out, "  days                  = %s\n", strings.Join(cfg.Schedule.Days, ", "))
	fmt.Fprintf(out, "  day_start             = %s\n", cfg.Schedule.DayStart)
	fmt.Fprintf(out, "  day_end               = %s\n", cfg.Schedule.DayEnd)
	fmt.Fprintln(out, "\n[grid]")
	fmt.Fprintf(out, "  snap_minutes          = %d\n", cfg.Grid.SnapMinutes)
	fmt.Fprintf(out, "  default_event_minutes = %d\n", cfg.Grid.DefaultEventMinutes)
	fmt.Fprintf(out, "  header_fraction       = %g\n", cfg.Grid.HeaderFraction)
	fmt.Fprintf(out, "  max_static_tilt       = %g\n", cfg.Grid.MaxStaticTilt)
	fmt.Fprintf(out, "  max_inertial_tilt     = %g\n", cfg.Grid.MaxInertialTilt)
	fmt.Fprintln(out, "\n[storage]")
	fmt.Fprintf(out, "  db_path               = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(out, "\n[ui]")
	fmt.Fprintf(out, "  theme                 = %s\n", cfg.UI.Theme)
	fmt.Fprintln(out, "\n[logging]")
	fmt.Fprintf(out, "  level                 = %s\n", cfg.Logging.Level)
	fmt.Fprintf(out, "  file                  = %s\n", cfg.Logging.File)
}

func promptYesNo(reader *bufio.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(strings.ToLower(input))
	return input == "y" || input == "yes"
}

func promptValue(reader *bufio.Reader, out io.Writer, label, current string) string {
	if current == "" {
		fmt.Fprintf(out, "  %s: ", label)
	} else {
		fmt.Fprintf(out, "  %s [%s]: ", label, current)
	}
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func promptInt(reader *bufio.Reader, out io.Writer, label string, current int) int {
	for {
		value := promptValue(reader, out, label, strconv.Itoa(current))
		n, err := strconv.Atoi(value)
		if err == nil {
			return n
		}
		fmt.Fprintf(out, "  Invalid number %q\n", value)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}

func promptSlice(reader *bufio.Reader, out io.Writer, label string, current []string) []string {
	fmt.Fprintf(out, "  %s [%s]: ", label, strings.Join(current, ", "))
	input, _ := reader.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

func promptTheme(reader *bufio.Reader, out io.Writer, current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(promptValue(reader, out, label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(out, "  Invalid theme %q. Available: %s\n", value, options)
		if _, err := reader.Peek(1); err != nil {
			return current
		}
	}
}
