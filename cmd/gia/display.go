package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"
)

const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorPink   = "\033[95m"
)

// display renders stylist replies as terminal markdown.
type display struct {
	out      io.Writer
	renderer *glamour.TermRenderer
}

func newDisplay(out io.Writer) *display {
	// plain text is printed when the renderer cannot be built
	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(terminalWidth()-4),
	)
	return &display{out: out, renderer: renderer}
}

func (d *display) welcome(model, occasion string) {
	fmt.Fprintf(d.out, "%s%sGia, your AI stylist%s\n", colorBold, colorPink, colorReset)
	fmt.Fprintf(d.out, "%sModel:%s %s  %sOccasion:%s %s\n", colorGray, colorReset, model, colorGray, colorReset, occasion)
	fmt.Fprintf(d.out, "%sCommands:%s /photo <path> (compare a new outfit) | /exit\n\n", colorGray, colorReset)
}

// reply prints the stylist's text and, when visible, the score badge.
func (d *display) reply(text string, score *float64, shoppingURL string) {
	if score != nil {
		fmt.Fprintf(d.out, "%s%s %s/10 %s\n", colorBold, colorGreen, formatScore(*score), colorReset)
	}

	rendered := text
	if d.renderer != nil {
		if out, err := d.renderer.Render(text); err == nil {
			rendered = out
		}
	}
	fmt.Fprintln(d.out, strings.TrimRight(rendered, "\n"))

	if shoppingURL != "" {
		fmt.Fprintf(d.out, "%sShop it:%s %s\n", colorGray, colorReset, shoppingURL)
	}
	fmt.Fprintln(d.out)
}

func (d *display) prompt() {
	fmt.Fprintf(d.out, "%s%s> %s", colorBold, colorPink, colorReset)
}

func (d *display) info(msg string) {
	fmt.Fprintf(d.out, "%s%s%s\n", colorGray, msg, colorReset)
}

func (d *display) warn(msg string) {
	fmt.Fprintf(d.out, "%s%s%s\n", colorYellow, msg, colorReset)
}

func (d *display) fail(err error) {
	fmt.Fprintf(d.out, "%sError:%s %v\n", colorRed, colorReset, err)
}

func formatScore(s float64) string {
	if s == float64(int(s)) {
		return fmt.Sprintf("%d", int(s))
	}
	return fmt.Sprintf("%.1f", s)
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 20 {
		return w
	}
	return 80
}
