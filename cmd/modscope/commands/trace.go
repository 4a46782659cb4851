package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/modscope/modscope/pkg/modscope"
)

// traceFileLimit bounds the changed-file listing in the verbose trace.
const traceFileLimit = 10

// noModulesMarker is printed in the trace when no module is affected.
const noModulesMarker = "<none>"

// renderTrace writes the diagnostic trace of a pipeline run: the detected
// strategy, the diff command, the truncated changed-file list, a
// per-file classification table, and the final module list. The trace is an
// observability side channel and never touches stdout.
func renderTrace(w io.Writer, result modscope.Result) {
	color.New(color.FgCyan).Fprintf(w, "strategy: %s\n", result.Strategy)
	fmt.Fprintf(w, "diff command: %s\n", strings.Join(result.DiffArgs, " "))

	if result.Degraded != "" {
		color.New(color.FgRed).Fprintf(w, "degraded: %s\n", result.Degraded)
	}

	renderChangedFiles(w, result.Changed)

	if len(result.Files) > 0 {
		renderFileTable(w, result.Files)
	}

	if len(result.Modules) == 0 {
		fmt.Fprintf(w, "modules: %s\n", noModulesMarker)

		return
	}

	color.New(color.FgGreen).Fprintf(w, "modules: %s\n", strings.Join(result.Modules, ","))
}

func renderChangedFiles(w io.Writer, changed []string) {
	fmt.Fprintf(w, "changed files (%s):\n", humanize.Comma(int64(len(changed))))

	shown := changed
	if len(shown) > traceFileLimit {
		shown = shown[:traceFileLimit]
	}

	for _, path := range shown {
		fmt.Fprintf(w, "  %s\n", path)
	}

	if rest := len(changed) - len(shown); rest > 0 {
		fmt.Fprintf(w, "  ... and %s more\n", humanize.Comma(int64(rest)))
	}
}

func renderFileTable(w io.Writer, files []modscope.FileTrace) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"File", "Rule", "Module"})

	for _, entry := range files {
		module := entry.Module
		if module == "" {
			module = "-"
		}

		tbl.AppendRow(table.Row{entry.Path, entry.Rule, module})
	}

	tbl.AppendFooter(table.Row{fmt.Sprintf("Total: %d files", len(files)), "", ""})
	tbl.Render()
}
