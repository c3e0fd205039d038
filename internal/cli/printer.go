package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/muesli/termenv"

	"github.com/satchelhq/satchel/pkg/domain"
)

// Printer renders protocol commands for a terminal. Pages become
// markdown rendered through glamour; logs get level-colored prefixes.
type Printer struct {
	out    io.Writer
	locale string
	color  bool
	render func(string) (string, error)
}

// NewPrinter creates a printer for the given output. When color is
// false (piped output, scripted runs), markdown is printed as-is.
func NewPrinter(out io.Writer, locale string, color bool) *Printer {
	p := &Printer{out: out, locale: locale, color: color}
	if color {
		if r, err := glamour.NewTermRenderer(glamour.WithAutoStyle()); err == nil {
			p.render = r.Render
		}
	}
	return p
}

// Command prints one command.
func (p *Printer) Command(cmd domain.Command) {
	switch c := cmd.(type) {
	case domain.RenderUI:
		p.page(c.Page)
	case domain.SystemDonate:
		fmt.Fprintf(p.out, ">>> donation %s (%d bytes)\n", c.Key, len(c.JSON))
	case domain.SystemLog:
		p.log(c)
	case domain.SystemExit:
		fmt.Fprintf(p.out, ">>> session finished (code %d): %s\n", c.Code, c.Message)
	}
}

func (p *Printer) page(page domain.Prop) {
	switch pg := page.(type) {
	case domain.EndPage:
		p.markdown("# Thank you\n\nYou can close this window.\n")
	case domain.Page:
		var md strings.Builder
		fmt.Fprintf(&md, "# %s\n\n", pg.Header.Title.Resolve(p.locale))
		for _, prop := range pg.Body {
			p.prop(&md, prop)
		}
		if pg.Footer != nil {
			fmt.Fprintf(&md, "\n---\nprogress: %.0f%%\n", pg.Footer.Progress)
		}
		p.markdown(md.String())
	}
}

func (p *Printer) prop(md *strings.Builder, prop domain.Prop) {
	switch v := prop.(type) {
	case domain.TextBlock:
		if title := v.Title.Resolve(p.locale); title != "" {
			fmt.Fprintf(md, "## %s\n\n", title)
		}
		fmt.Fprintf(md, "%s\n\n", v.Text.Resolve(p.locale))
	case domain.FileInput:
		fmt.Fprintf(md, "%s\n\n(accepted: %s)\n\n", v.Description.Resolve(p.locale), v.Extensions)
	case domain.Progress:
		fmt.Fprintf(md, "%s: %s (%.0f%%)\n\n", v.Description.Resolve(p.locale), v.Message, v.Percentage)
	case domain.Confirm:
		fmt.Fprintf(md, "%s\n\n[y] %s  [n] %s\n\n",
			v.Text.Resolve(p.locale), v.OK.Resolve(p.locale), v.Cancel.Resolve(p.locale))
	case domain.ConsentFormTable:
		fmt.Fprintf(md, "## %s\n\n", v.Title.Resolve(p.locale))
		if desc := v.Description.Resolve(p.locale); desc != "" {
			fmt.Fprintf(md, "%s\n\n", desc)
		}
		writeMarkdownTable(md, v.Table)
	case domain.DonateButtons:
		fmt.Fprintf(md, "%s\n\n", v.Question.Resolve(p.locale))
	}
}

// writeMarkdownTable renders a data table as a markdown table, capped
// so a large extraction does not flood the terminal.
func writeMarkdownTable(md *strings.Builder, t domain.DataTable) {
	const maxRows = 20

	fmt.Fprintf(md, "| %s |\n", strings.Join(t.Columns, " | "))
	sep := make([]string, len(t.Columns))
	for i := range sep {
		sep[i] = "---"
	}
	fmt.Fprintf(md, "| %s |\n", strings.Join(sep, " | "))

	for i, row := range t.Rows {
		if i == maxRows {
			fmt.Fprintf(md, "\n(%d more rows)\n", len(t.Rows)-maxRows)
			break
		}
		cells := make([]string, len(row))
		for j, cell := range row {
			cells[j] = fmt.Sprint(cell)
		}
		fmt.Fprintf(md, "| %s |\n", strings.Join(cells, " | "))
	}
	md.WriteString("\n")
}

func (p *Printer) markdown(md string) {
	if p.render != nil {
		if out, err := p.render(md); err == nil {
			fmt.Fprint(p.out, out)
			return
		}
	}
	fmt.Fprint(p.out, md)
}

func (p *Printer) log(c domain.SystemLog) {
	label := strings.ToUpper(string(c.Level))
	if p.color {
		profile := termenv.ColorProfile()
		styled := termenv.String(label)
		switch c.Level {
		case domain.LevelError:
			styled = styled.Foreground(profile.Color("#fb7185"))
		case domain.LevelWarn:
			styled = styled.Foreground(profile.Color("#fbbf24"))
		default:
			styled = styled.Foreground(profile.Color("#818cf8"))
		}
		label = styled.String()
	}
	fmt.Fprintf(p.out, "[%s] %s\n", label, c.Message)
}
