package main

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string         `json:"command"`
	Results    any            `json:"results"`
	Error      string         `json:"error,omitempty"`
	Diagnostic *CLIDiagnostic `json:"diagnostic,omitempty"`
}

// CLINode is a JSON-friendly hierarchy node.
type CLINode struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Kind       string `json:"kind,omitempty"`
	PreciseID  string `json:"precise_id,omitempty"`
	Language   string `json:"language,omitempty"`
	Path       string `json:"path,omitempty"`
	Disfavored bool   `json:"disfavored,omitempty"`
}

// CLICandidate is a node a link could have meant, with its disambiguation suffix.
type CLICandidate struct {
	Node           CLINode `json:"node"`
	Disambiguation string  `json:"disambiguation"`
}

// CLIDiagnostic describes a failed resolution in enough detail to suggest a fix.
type CLIDiagnostic struct {
	Kind              string         `json:"kind"`
	Message           string         `json:"message"`
	PartialPath       string         `json:"partial_path,omitempty"`
	PartialNode       *CLINode       `json:"partial_node,omitempty"`
	Remaining         []string       `json:"remaining,omitempty"`
	AvailableChildren []string       `json:"available_children,omitempty"`
	Candidates        []CLICandidate `json:"candidates,omitempty"`
	NearMisses        []string       `json:"near_misses,omitempty"`
}
