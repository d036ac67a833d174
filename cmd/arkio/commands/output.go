package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/arkio/arkio-client/internal/constants"
	"github.com/arkio/arkio-client/pkg/arkio"
)

// outputFormat returns the configured output format.
func outputFormat() (string, error) {
	format := strings.ToLower(strings.TrimSpace(viper.GetString("output")))

	switch format {
	case "", constants.FormatTable:
		return constants.FormatTable, nil
	case constants.FormatJSON, constants.FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// renderStructured writes data as JSON or YAML.
func renderStructured(writer io.Writer, format string, data interface{}) error {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(writer)
		encoder.SetIndent("", strings.Repeat(" ", constants.JSONIndentSize))

		return encoder.Encode(data)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(writer)
		defer func() { _ = encoder.Close() }()

		return encoder.Encode(data)
	default:
		return fmt.Errorf("%w: %s", constants.ErrInvalidOutputFormat, format)
	}
}

// renderTable writes rows under header.
func renderTable(writer io.Writer, header []string, rows [][]string) error {
	columns := make([]any, len(header))
	for i, column := range header {
		columns[i] = column
	}

	table := tablewriter.NewWriter(writer)
	table.Header(columns...)

	for _, row := range rows {
		_ = table.Append(row)
	}

	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

// render writes data in the configured format, building table rows lazily.
func render(writer io.Writer, data interface{}, header []string, rows func() [][]string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}

	if format != constants.FormatTable {
		return renderStructured(writer, format, data)
	}

	return renderTable(writer, header, rows())
}

// unwrapResult turns an application error into a command error.
func unwrapResult[T any](result *arkio.Result[T]) (T, error) {
	value, err := result.Unwrap()
	if err != nil {
		return value, fmt.Errorf("%w: %w", constants.ErrRequestRejected, err)
	}

	return value, nil
}

func orNotAvailable(value string) string {
	if value == "" {
		return constants.NotAvailable
	}

	return value
}

func truncate(value string) string {
	runes := []rune(value)
	if len(runes) <= constants.StringTruncationLength {
		return value
	}

	return string(runes[:constants.StringTruncationLength-3]) + "..."
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}

	return constants.MaskedSecret
}
