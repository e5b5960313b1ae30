// Package render draws the package graph walked by a conversion as a
// Graphviz diagram.
//
// [ToDOT] produces DOT text; [RenderSVG] lays it out with the embedded
// Graphviz library. [WriteFile] picks the format from the file extension.
package render

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nugetnpm/pkg/convert"
	"github.com/matzehuels/nugetnpm/pkg/errors"
)

// Options configures graph rendering.
type Options struct {
	// Detailed adds the npm name, selected framework and payload file count
	// to node labels.
	Detailed bool
}

// ToDOT converts a conversion result to Graphviz DOT.
//
// Written packages are white, preserved packages grey and failed packages
// red. Cycle edges are dashed; dependencies without a minimum version point
// to a dotted node labelled with their range.
func ToDOT(res *convert.Result, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range res.Nodes {
		fmt.Fprintf(&buf, "  %q [%s];\n", n.Identity.Key(), strings.Join(nodeAttrs(n, opts.Detailed), ", "))
	}
	for _, f := range res.Failures {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=\"#f4cccc\", style=\"rounded,filled,dashed\"];\n",
			f.Identity.Key(), f.Identity.String())
	}

	buf.WriteString("\n")
	cycles := make(map[string]bool, len(res.Cycles))
	for _, e := range res.Cycles {
		cycles[edgeKey(e)] = true
	}
	for _, e := range res.Edges {
		if cycles[edgeKey(e)] {
			fmt.Fprintf(&buf, "  %q -> %q [style=dashed, color=red];\n", e.From.Key(), e.To.Key())
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.From.Key(), e.To.Key())
	}
	for i, u := range res.Unbounded {
		id := fmt.Sprintf("unbounded-%d", i)
		label := u.Dependency.ID
		if r := u.Dependency.Range.String(); r != "" {
			label += " " + r
		}
		fmt.Fprintf(&buf, "  %q [label=%q, style=\"rounded,dotted\"];\n", id, label)
		fmt.Fprintf(&buf, "  %q -> %q [style=dotted];\n", u.From.Key(), id)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func edgeKey(e convert.Edge) string {
	return e.From.Key() + "->" + e.To.Key()
}

func nodeAttrs(n *convert.Node, detailed bool) []string {
	label := n.Identity.String()
	if detailed {
		label += "\n" + n.Name
		if n.Matched && !n.Framework.IsAny() {
			label += "\n" + n.Framework.String()
		}
		if n.Files > 0 {
			label += fmt.Sprintf("\nfiles: %d", n.Files)
		}
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch {
	case n.Preserved:
		attrs = append(attrs, "fillcolor=lightgrey")
	case n.CopyFailures > 0:
		attrs = append(attrs, "fillcolor=\"#fce5cd\"")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// WriteFile writes the graph of res to path: SVG for ".svg", DOT for ".dot"
// and ".gv".
func WriteFile(ctx context.Context, path string, res *convert.Result, opts Options) error {
	dot := ToDOT(res, opts)

	var data []byte
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".dot", ".gv":
		data = []byte(dot)
	case ".svg":
		svg, err := RenderSVG(ctx, dot)
		if err != nil {
			return err
		}
		data = svg
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unsupported graph format %q (use .dot, .gv or .svg)", ext)
	}
	return os.WriteFile(path, data, 0o644)
}
