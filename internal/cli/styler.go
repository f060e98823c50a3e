package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/logrusorgru/aurora/v3"
	"github.com/mattn/go-isatty"
)

const (
	infoStyle   aurora.Color = aurora.BlackFg | aurora.BrightFg
	failStyle   aurora.Color = aurora.RedFg
	okStyle     aurora.Color = aurora.GreenFg
	warnStyle   aurora.Color = aurora.YellowFg
	nounStyle   aurora.Color = aurora.CyanFg
	brightStyle aurora.Color = aurora.WhiteFg | aurora.BrightFg
)

type styler struct {
	au aurora.Aurora
}

// newStyler colours output only when w is a terminal
func newStyler(w io.Writer, noColor bool) styler {
	colors := false
	if f, ok := w.(*os.File); ok && !noColor {
		colors = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return styler{au: aurora.NewAurora(colors)}
}

func (s styler) Info(v any) string {
	if len(fmt.Sprint(v)) == 0 {
		return s.Info("<none>")
	}
	return s.au.Colorize(v, infoStyle).String()
}
func (s styler) Fail(v any) string {
	return s.au.Colorize(v, failStyle).String()
}
func (s styler) Ok(v any) string {
	return s.au.Colorize(v, okStyle).String()
}
func (s styler) Warn(v any) string {
	return s.au.Colorize(v, warnStyle).String()
}
func (s styler) Noun(v any) string {
	return s.au.Colorize(v, nounStyle).String()
}
func (s styler) Bright(v any) string {
	return s.au.Colorize(v, brightStyle).String()
}

// Status colours a status code by class
func (s styler) Status(code int) string {
	switch {
	case code >= 500:
		return s.Fail(code)
	case code >= 400:
		return s.Warn(code)
	default:
		return s.Ok(code)
	}
}
