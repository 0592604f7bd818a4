package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	configdomain "github.com/flaskkit/manage/internal/core/domain/config"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configurations",
		Long: `Inspect the named configurations manage loads.

Without a name the ambient configuration (APPLICATION_CONFIG) is used.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "show [name]",
		Short: "Show the variables a configuration resolves to",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := configName(container, args)

			env, report, err := container.ConfigService.Configure(cmd.Context(), container.Environment, name)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, headerStyle.Render(fmt.Sprintf("Configuration %q", name)))
			fmt.Fprintln(out, dimStyle.Render(container.ConfigService.Path(name)))
			fmt.Fprintln(out, configTable(env, report, container.ConfigService.Path(name)))
			return nil
		},
	}
}

type configRow struct {
	key, value, source string
}

func configTable(env configdomain.Environment, report configdomain.Report, path string) string {
	rows := make([]configRow, 0, len(report.Applied)+len(report.Retained)+len(report.Errors))
	for _, key := range report.Applied {
		rows = append(rows, configRow{key, displayValue(key, env.Get(key)), path})
	}
	for _, key := range report.Retained {
		rows = append(rows, configRow{key, displayValue(key, env.Get(key)), "env"})
	}
	for _, keyErr := range report.Errors {
		rows = append(rows, configRow{keyErr.Key, "", "error: " + keyErr.Err.Error()})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].key < rows[j].key })

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("KEY", "VALUE", "SOURCE").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	for _, r := range rows {
		t.Row(r.key, r.value, r.source)
	}
	return t.String()
}

var secretMarkers = []string{"SECRET", "PASSWORD", "TOKEN", "API_KEY", "PRIVATE_KEY", "CREDENTIALS"}

func isSecretKey(key string) bool {
	upper := strings.ToUpper(key)
	for _, marker := range secretMarkers {
		if strings.Contains(upper, marker) {
			return true
		}
	}
	return false
}

func displayValue(key, value string) string {
	if isSecretKey(key) {
		return maskSecret(value)
	}
	return value
}

// maskSecret masks a secret value for display
func maskSecret(value string) string {
	if value == "" {
		return "(empty)"
	}
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path [name]",
		Short: "Show the configuration and compose file paths",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := configName(container, args)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration file: %s\n", container.ConfigService.Path(name))
			fmt.Fprintf(out, "Compose file: %s\n", container.LaunchService.ComposePath(name))
			return nil
		},
	}
}

func configName(container *CLIContainer, args []string) string {
	if len(args) == 1 {
		return args[0]
	}
	return container.Environment.ConfigName()
}
