package engine

import (
	"fmt"

	"github.com/hexops/gotextdiff"
	"github.com/hexops/gotextdiff/myers"
	"github.com/hexops/gotextdiff/span"
)

// Diff returns a unified diff of the file's original and transformed text.
// It is empty when the file did not change.
func (r *FileResult) Diff() string {
	if !r.Changed {
		return ""
	}
	before, after := string(r.Original), string(r.Output)
	edits := myers.ComputeEdits(span.URIFromPath(r.Path), before, after)
	return fmt.Sprint(gotextdiff.ToUnified("a/"+r.Path, "b/"+r.Path, before, edits))
}
