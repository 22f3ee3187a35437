package output

import "github.com/leapstack-labs/nameof/pkg/core"

// TransformOutput is the JSON form of a transform or check run.
type TransformOutput struct {
	Files   []FileOutput   `json:"files"`
	Summary SummaryOutput  `json:"summary"`
	Errors  []FileErrorOut `json:"errors,omitempty"`
}

// FileOutput describes one transformed file.
type FileOutput struct {
	Path        string            `json:"path"`
	Host        string            `json:"host"`
	Replaced    int               `json:"replaced"`
	Changed     bool              `json:"changed"`
	Diagnostics []core.Diagnostic `json:"diagnostics,omitempty"`
}

// FileErrorOut describes a file that could not be processed.
type FileErrorOut struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// SummaryOutput totals a run.
type SummaryOutput struct {
	Files       int `json:"files"`
	Changed     int `json:"changed"`
	Replaced    int `json:"replaced"`
	Diagnostics int `json:"diagnostics"`
	Errors      int `json:"errors"`
}

// HostInfo describes a registered host.
type HostInfo struct {
	Name       string   `json:"name"`
	Extensions []string `json:"extensions"`
	Enabled    bool     `json:"enabled"`
}

// HostsOutput is the JSON form of the hosts command.
type HostsOutput struct {
	Hosts []HostInfo `json:"hosts"`
}

// EvalOutput is the JSON form of an eval result.
type EvalOutput struct {
	Host        string            `json:"host"`
	Input       string            `json:"input"`
	Output      string            `json:"output"`
	Replaced    int               `json:"replaced"`
	Diagnostics []core.Diagnostic `json:"diagnostics,omitempty"`
}
