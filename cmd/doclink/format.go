package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// formatNodeText formats a resolved node as aligned columns.
func formatNodeText(w io.Writer, n CLINode) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "PATH\tKIND\tLANGUAGE\tPRECISE ID")
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", n.Path, orDash(n.Kind), orDash(n.Language), orDash(n.PreciseID))
	tw.Flush()
}

// formatPathsText writes one path per line.
func formatPathsText(w io.Writer, paths []string) {
	for _, p := range paths {
		fmt.Fprintln(w, p)
	}
}

// formatDiagnosticText writes the context of a failed resolution.
func formatDiagnosticText(w io.Writer, d CLIDiagnostic) {
	if d.PartialPath != "" {
		fmt.Fprintf(w, "  resolved up to: %s\n", d.PartialPath)
	}
	if len(d.Remaining) > 0 {
		fmt.Fprintf(w, "  unresolved:     %s\n", strings.Join(d.Remaining, "/"))
	}
	if len(d.NearMisses) > 0 {
		fmt.Fprintf(w, "  did you mean:   %s\n", strings.Join(d.NearMisses, ", "))
	}
	if len(d.Candidates) > 0 {
		fmt.Fprintln(w, "  candidates:")
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		for _, c := range d.Candidates {
			fmt.Fprintf(tw, "    %s%s\t%s\t%s\n", c.Node.Name, c.Disambiguation, orDash(c.Node.Kind), orDash(c.Node.Language))
		}
		tw.Flush()
	} else if len(d.AvailableChildren) > 0 {
		fmt.Fprintf(w, "  available:      %s\n", strings.Join(d.AvailableChildren, ", "))
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case CLINode:
		formatNodeText(w, v)
	case []string:
		formatPathsText(w, v)
	case nil:
	default:
		return fmt.Errorf("unsupported result type for text format: %T", v)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return fmt.Errorf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
