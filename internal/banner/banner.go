package banner

import (
	"io"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
)

// Print writes the CLI banner to w.
func Print(w io.Writer, version string) {
	fig := figure.NewFigure("SEOAUDIT", "doom", true)
	cyan := color.New(color.FgCyan)
	green := color.New(color.FgGreen)

	_, _ = cyan.Fprintln(w, fig.String())
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
	_, _ = green.Fprintf(w, "    SEO audit engine v%s | https://github.com/selimozcann\n", version)
	_, _ = cyan.Fprintln(w, "════════════════════════════════════════════════")
}
