package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpTerm    = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	helpDefault = lipgloss.NewStyle().Foreground(colorDim).Italic(true)
)

// helpRow is one line of a help section: a styled left-hand term and its
// plain right-hand description.
type helpRow struct {
	term string
	desc string
}

// HelpPrinter renders kong's parsed model as a compact help screen with the
// descriptions aligned in a single column. It satisfies kong.HelpPrinter.
func HelpPrinter(_ kong.HelpOptions, ctx *kong.Context) error {
	var out strings.Builder

	fmt.Fprintf(&out, "%s %s\n", heading.Render(ctx.Model.Name), label.Render(ctx.Model.Help))
	fmt.Fprintf(&out, "\n%s %s [flags] <files> ...\n", heading.Render("usage:"), ctx.Model.Name)

	if rows := flagRows(ctx.Model.Node); len(rows) > 0 {
		fmt.Fprintf(&out, "\n%s\n", heading.Render("flags:"))
		writeAligned(&out, rows)
	}
	if rows := positionalRows(ctx.Model.Node); len(rows) > 0 {
		fmt.Fprintf(&out, "\n%s\n", heading.Render("arguments:"))
		writeAligned(&out, rows)
	}

	fmt.Fprint(ctx.Stdout, out.String())
	return nil
}

// writeAligned pads every term to the widest one so the descriptions line
// up. Padding happens before styling: lipgloss escape codes would otherwise
// throw off the width count.
func writeAligned(out *strings.Builder, rows []helpRow) {
	width := 0
	for _, r := range rows {
		if len(r.term) > width {
			width = len(r.term)
		}
	}
	for _, r := range rows {
		fmt.Fprintf(out, "  %s  %s\n", helpTerm.Render(fmt.Sprintf("%-*s", width, r.term)), r.desc)
	}
}

func flagRows(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, f := range node.Flags {
		term := "--" + f.Name
		if f.Short != 0 {
			term = fmt.Sprintf("-%c, %s", f.Short, term)
		}
		if !f.IsBool() && f.PlaceHolder != "" {
			term += " " + strings.ToUpper(f.PlaceHolder)
		}

		desc := f.Help
		if def := f.FormatPlaceHolder(); def != "" && !f.IsBool() {
			desc += " " + helpDefault.Render("[default "+def+"]")
		}

		rows = append(rows, helpRow{term: term, desc: desc})
	}
	return rows
}

func positionalRows(node *kong.Node) []helpRow {
	var rows []helpRow
	for _, arg := range node.Positional {
		rows = append(rows, helpRow{term: arg.Summary(), desc: arg.Help})
	}
	return rows
}
