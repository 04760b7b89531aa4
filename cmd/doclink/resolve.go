package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/jward/doclink"
	"github.com/spf13/cobra"
)

var (
	flagFrom    string
	flagSymbols bool
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <path>",
	Short: "Resolve a documentation link",
	Long: `Resolves a link path such as "Kit/Widget/draw(in:)-func" against the snapshot.
With --from, a relative path is resolved starting at that page and walking up its ancestors.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&flagFrom, "from", "", "absolute link of the page the link appears on")
	resolveCmd.Flags().BoolVar(&flagSymbols, "symbols", false, "only match symbols (double-backtick symbol links)")
}

var pathsCmd = &cobra.Command{
	Use:   "paths",
	Short: "List the disambiguated link path of every linkable page",
	Args:  cobra.NoArgs,
	RunE:  runPaths,
}

func runResolve(cmd *cobra.Command, args []string) error {
	h, err := openHierarchy()
	if err != nil {
		return outputError("resolve", err)
	}
	node, err := resolveLink(h, args[0], flagFrom, flagSymbols)
	if err != nil {
		return outputError("resolve", err)
	}
	return outputResult(CLIResult{Command: "resolve", Results: node})
}

func runPaths(cmd *cobra.Command, args []string) error {
	h, err := openHierarchy()
	if err != nil {
		return outputError("paths", err)
	}
	return outputResult(CLIResult{Command: "paths", Results: h.Paths()})
}

// resolveLink resolves path, anchored at the absolute link from when given.
func resolveLink(h *doclink.Hierarchy, path, from string, symbolsOnly bool) (CLINode, error) {
	var parent *doclink.ResolvedIdentifier
	if from != "" {
		anchor, err := h.Find(from, nil, false)
		if err != nil {
			return CLINode{}, fmt.Errorf("resolving --from %q: %w", from, err)
		}
		parent = &anchor
	}

	id, err := h.Find(path, parent, symbolsOnly)
	if err != nil {
		return CLINode{}, err
	}
	node, _ := h.Node(id)
	cli := nodeToCLI(node)
	cli.Path, _ = h.Path(id)
	return cli, nil
}

// outputResult marshals a CLIResult to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	diag := diagnosticFor(err)
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if diag != nil {
			formatDiagnosticText(os.Stderr, *diag)
		}
		return err
	}
	result := CLIResult{
		Command:    command,
		Error:      err.Error(),
		Diagnostic: diag,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(result)
	return err
}

// diagnosticFor converts a resolution failure into a CLIDiagnostic. It
// returns nil for errors that didn't come from link resolution.
func diagnosticFor(err error) *CLIDiagnostic {
	var fe doclink.FindError
	if !errors.As(err, &fe) {
		return nil
	}
	d := &CLIDiagnostic{Message: fe.Error()}

	switch e := fe.(type) {
	case *doclink.NotFoundError:
		d.Kind = "not_found"
		d.Remaining = componentNames(e.Remaining)
		d.AvailableChildren = e.AvailableChildren
	case *doclink.UnknownNameError:
		d.Kind = "unknown_name"
		setPartial(d, e.PartialResult)
		d.Remaining = componentNames(e.Remaining)
		d.AvailableChildren = e.AvailableChildren
		d.NearMisses = e.NearMisses()
	case *doclink.UnknownDisambiguationError:
		d.Kind = "unknown_disambiguation"
		setPartial(d, e.PartialResult)
		d.Remaining = componentNames(e.Remaining)
		d.Candidates = candidatesToCLI(e.Candidates)
	case *doclink.LookupCollisionError:
		d.Kind = "lookup_collision"
		setPartial(d, e.PartialResult)
		d.Remaining = componentNames(e.Remaining)
		d.Candidates = candidatesToCLI(e.Collisions)
	case *doclink.UnfindableMatchError:
		d.Kind = "unfindable_match"
		node := nodeToCLI(e.Node)
		d.PartialNode = &node
	case *doclink.NonSymbolMatchError:
		d.Kind = "non_symbol_match"
	}
	return d
}

func setPartial(d *CLIDiagnostic, p doclink.PartialResult) {
	d.PartialPath = p.PathString()
	node := nodeToCLI(p.Node)
	d.PartialNode = &node
}

func componentNames(cs []doclink.PathComponent) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Full
	}
	return out
}

func candidatesToCLI(cs []doclink.Candidate) []CLICandidate {
	out := make([]CLICandidate, len(cs))
	for i, c := range cs {
		out[i] = CLICandidate{Node: nodeToCLI(c.Node), Disambiguation: c.Disambiguation}
	}
	return out
}

// nodeToCLI converts a doclink.Node to a CLINode.
func nodeToCLI(n doclink.Node) CLINode {
	cli := CLINode{
		Name:       n.Name,
		Disfavored: n.Disfavored,
	}
	if !n.Identifier.IsZero() {
		cli.ID = n.Identifier.String()
	}
	if n.Symbol != nil {
		cli.Kind = n.Symbol.Kind
		cli.PreciseID = n.Symbol.PreciseID
		cli.Language = string(n.Symbol.Language)
	}
	return cli
}
