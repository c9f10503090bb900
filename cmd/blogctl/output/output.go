// Package output は blogctl の色付き出力を提供します。
package output

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}).Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	headingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)

// Printer はコマンドの出力先に書き込みます。
type Printer struct {
	w io.Writer
}

// New は w に書き込む Printer を返します。
func New(w io.Writer) *Printer {
	return &Printer{w: w}
}

func (p *Printer) line(mark string, style lipgloss.Style, format string, args ...any) {
	fmt.Fprintf(p.w, "%s %s\n", style.Render(mark), fmt.Sprintf(format, args...))
}

// OK は成功を表示します。
func (p *Printer) OK(format string, args ...any) { p.line("ok", okStyle, format, args...) }

// Warn は注意を表示します。
func (p *Printer) Warn(format string, args ...any) { p.line("!!", warnStyle, format, args...) }

// Fail は失敗を表示します。
func (p *Printer) Fail(format string, args ...any) { p.line("xx", failStyle, format, args...) }

// Note は補足を控えめに表示します。
func (p *Printer) Note(format string, args ...any) {
	fmt.Fprintln(p.w, faintStyle.Render(fmt.Sprintf(format, args...)))
}

// Heading は見出しを表示します。
func (p *Printer) Heading(title string) {
	fmt.Fprintln(p.w, headingStyle.Render(title))
}

// Table は列をそろえて表を書きます。
func (p *Printer) Table(headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Role はユーザーの権限を表示用の文字列にします。
func Role(admin bool) string {
	if admin {
		return "admin"
	}
	return "user"
}
