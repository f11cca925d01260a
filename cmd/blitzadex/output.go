package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// OutputFormatter handles output in JSON or human-readable format
type OutputFormatter struct {
	jsonMode bool
	out      io.Writer
	errOut   io.Writer
}

// newOutputFormatter creates a new formatter based on the command's --json flag
func newOutputFormatter(cmd *cobra.Command) *OutputFormatter {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &OutputFormatter{
		jsonMode: jsonMode,
		out:      cmd.OutOrStdout(),
		errOut:   cmd.ErrOrStderr(),
	}
}

// Print writes data as indented JSON in --json mode and calls human otherwise.
func (f *OutputFormatter) Print(data interface{}, human func(w io.Writer) error) error {
	if f.jsonMode || human == nil {
		jsonBytes, err := json.MarshalIndent(data, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		_, err = fmt.Fprintln(f.out, string(jsonBytes))
		return err
	}
	return human(f.out)
}

// Table writes rows under header, aligned in columns.
func (f *OutputFormatter) Table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(f.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Error outputs an error message to stderr
func (f *OutputFormatter) Error(message string, err error) {
	if f.jsonMode {
		output := map[string]interface{}{
			"success": false,
			"error":   message,
		}
		if err != nil {
			output["details"] = err.Error()
		}
		jsonBytes, _ := json.MarshalIndent(output, "", "  ")
		fmt.Fprintln(f.errOut, string(jsonBytes))
		return
	}
	if err != nil {
		fmt.Fprintf(f.errOut, "%s: %v\n", message, err)
	} else {
		fmt.Fprintln(f.errOut, message)
	}
}
