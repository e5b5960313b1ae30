package convert

import (
	"github.com/matzehuels/nugetnpm/pkg/errors"
	"github.com/matzehuels/nugetnpm/pkg/nuget"
)

// Node is one converted package version.
type Node struct {
	Identity     nuget.Identity
	Name         string          // Mapped npm name
	Depth        int             // Distance from the root
	Framework    nuget.Framework // Selected dependency group framework
	Matched      bool            // A dependency group matched the allowed frameworks
	Dependencies int             // Kept dependencies in the manifest
	Written      bool            // Manifest written to the package directory
	Preserved    bool            // Existing manifest kept
	Placeholder  bool            // Manifest written to the placeholder directory
	Files        int             // Payload files copied
	CopyFailures int             // Payload files that failed to copy
}

// Edge links a package to the version of a dependency that was walked.
type Edge struct {
	From nuget.Identity
	To   nuget.Identity
}

// UnboundedEdge is a kept dependency without a minimum version. It stays
// in the manifest but is not walked.
type UnboundedEdge struct {
	From       nuget.Identity
	Dependency nuget.Dependency
}

// Err describes the skipped edge as an UNBOUNDED_RANGE error.
func (u UnboundedEdge) Err() error {
	return errors.New(errors.ErrCodeUnboundedRange, "%s: %s %s has no minimum version", u.From, u.Dependency.ID, u.Dependency.Range)
}

// Failure is a package that could not be converted. Its subtree was not
// walked.
type Failure struct {
	Identity nuget.Identity
	Err      error
}

// Result summarizes a conversion run.
type Result struct {
	Root      nuget.Identity
	Nodes     []*Node
	Edges     []Edge
	Failures  []Failure
	Cycles    []Edge           // Edges back to a package still being walked
	Unbounded []UnboundedEdge  // Edges skipped for lack of a minimum version
	Truncated []nuget.Identity // Packages whose dependencies exceeded MaxDepth
}

// Node returns the node for id.
func (r *Result) Node(id nuget.Identity) (*Node, bool) {
	for _, n := range r.Nodes {
		if n.Identity.Key() == id.Key() {
			return n, true
		}
	}
	return nil, false
}

// Stats counts what the run did.
type Stats struct {
	Packages     int
	Written      int
	Preserved    int
	Placeholders int
	Files        int
	CopyFailures int
	Failures     int
}

// Stats aggregates the nodes of r.
func (r *Result) Stats() Stats {
	s := Stats{Packages: len(r.Nodes), Failures: len(r.Failures)}
	for _, n := range r.Nodes {
		if n.Written {
			s.Written++
		}
		if n.Preserved {
			s.Preserved++
		}
		if n.Placeholder {
			s.Placeholders++
		}
		s.Files += n.Files
		s.CopyFailures += n.CopyFailures
	}
	return s
}
