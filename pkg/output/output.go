// Package output renders command results in the configured format: indented
// JSON for scripts, aligned tables, or colored text for people.
package output

import (
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/fatih/color"
	jsoniter "github.com/json-iterator/go"
	"github.com/reelhouse/cli/pkg/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Format is an output format name
type Format string

const (
	FormatJSON  Format = "json"
	FormatTable Format = "table"
	FormatText  Format = "text"
)

// Out receives everything this package prints. Tests swap it for a buffer.
var Out io.Writer = color.Output

// Current returns the configured output format
func Current() Format {
	switch Format(config.GetString("output.format")) {
	case FormatJSON:
		return FormatJSON
	case FormatTable:
		return FormatTable
	default:
		return FormatText
	}
}

// Valid checks if format is a known format name
func Valid(format string) bool {
	switch Format(format) {
	case FormatJSON, FormatTable, FormatText:
		return true
	}
	return false
}

// Table prints rows under headers. In JSON mode data is printed instead, so
// callers pass the structured value the rows were built from.
func Table(headers []string, rows [][]string, data interface{}) error {
	if Current() == FormatJSON {
		return JSON(data)
	}
	if len(rows) == 0 {
		color.New(color.Faint).Fprintln(Out, "(none)")
		return nil
	}
	printTable(headers, rows)
	return nil
}

// Record prints a single object as sorted key/value lines
func Record(title string, record map[string]interface{}) error {
	switch Current() {
	case FormatJSON:
		return JSON(record)
	case FormatTable:
		rows := make([][]string, 0, len(record))
		for _, k := range sortedKeys(record) {
			rows = append(rows, []string{k, fmt.Sprintf("%v", record[k])})
		}
		printTable([]string{"Field", "Value"}, rows)
		return nil
	}

	if title != "" {
		color.New(color.Bold, color.Underline).Fprintln(Out, title)
	}
	bold := color.New(color.Bold)
	for _, k := range sortedKeys(record) {
		bold.Fprint(Out, k+": ")
		fmt.Fprintf(Out, "%v\n", record[k])
	}
	return nil
}

// JSON prints data as indented JSON
func JSON(data interface{}) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(Out, string(encoded))
	return err
}

// Text prints preformatted text unless JSON output is selected, in which case
// data is printed
func Text(text string, data interface{}) error {
	if Current() == FormatJSON {
		return JSON(data)
	}
	_, err := fmt.Fprint(Out, text)
	return err
}

// Success prints a success message
func Success(msg string, args ...interface{}) {
	color.New(color.FgGreen).Fprintf(Out, msg+"\n", args...)
}

// Error prints an error message
func Error(msg string, args ...interface{}) {
	color.New(color.FgRed).Fprintf(Out, "Error: "+msg+"\n", args...)
}

// Info prints an info message
func Info(msg string, args ...interface{}) {
	color.New(color.FgCyan).Fprintf(Out, msg+"\n", args...)
}

// Warning prints a warning message
func Warning(msg string, args ...interface{}) {
	color.New(color.FgYellow).Fprintf(Out, "Warning: "+msg+"\n", args...)
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(Out, 0, 0, 2, ' ', 0)
	bold := color.New(color.Bold)

	for i, h := range headers {
		bold.Fprint(w, h)
		if i < len(headers)-1 {
			fmt.Fprint(w, "\t")
		}
	}
	fmt.Fprintln(w)

	for _, row := range rows {
		for i, cell := range row {
			fmt.Fprint(w, cell)
			if i < len(row)-1 {
				fmt.Fprint(w, "\t")
			}
		}
		fmt.Fprintln(w)
	}

	w.Flush()
}

func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
