package disambiguate

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Console prompts on a terminal: views go to out (normally stderr, so
// results on stdout stay machine readable) and answers are read line by line
// from in.
type Console struct {
	in  *bufio.Reader
	out io.Writer

	header lipgloss.Style
	bar    lipgloss.Style
	sub    lipgloss.Style
	notice lipgloss.Style
	help   lipgloss.Style
}

func NewConsole(in io.Reader, out io.Writer) *Console {
	r := lipgloss.NewRenderer(out)
	return &Console{
		in:     bufio.NewReader(in),
		out:    out,
		header: r.NewStyle().Bold(true),
		bar:    r.NewStyle().Foreground(lipgloss.Color("2")),
		sub:    r.NewStyle().Faint(true),
		notice: r.NewStyle().Foreground(lipgloss.Color("3")),
		help:   r.NewStyle().Faint(true),
	}
}

func (c *Console) Prompt(ctx context.Context, view View) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if _, err := io.WriteString(c.out, c.render(view)); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	line, err := c.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	if _, err := io.WriteString(c.out, "\n"); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (c *Console) render(view View) string {
	var b strings.Builder
	if view.Notice != "" {
		fmt.Fprintf(&b, "%s\n\n", c.notice.Render(view.Notice))
	}
	fmt.Fprintf(&b, "\n%s  %q\n", c.header.Render("             Find:"), view.Original)
	if view.Query != view.Original {
		fmt.Fprintf(&b, "%s  %q\n", c.header.Render("           Search:"), view.Query)
	}
	b.WriteString("\n")
	for _, choice := range view.Choices {
		name := choice.Candidate.Name
		if choice.Candidate.Subregion {
			name += " " + c.sub.Render("(subregion)")
		}
		fmt.Fprintf(&b, " %4d:  %s  %s\n", choice.Rank, c.bar.Render(fmt.Sprintf("%10s", choice.Bar)), name)
	}
	if len(view.Choices) == 0 {
		b.WriteString(c.help.Render("        No candidates.") + "\n")
	}
	b.WriteString("\n")
	b.WriteString(c.help.Render("    0:  None of the above") + "\n")
	b.WriteString(c.help.Render("   #>:  Confirm text as sub-region of option #") + "\n")
	b.WriteString(c.help.Render(" Text:  Alternative search string") + "\n")
	b.WriteString("\n> ")
	return b.String()
}
