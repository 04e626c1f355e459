// internal/report/console.go
package report

import (
	"fmt"
	"io"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"

	"github.com/Slade66/number-generator/internal/observer"
)

// Console prints generator events for humans, in colour unless disabled. In
// progress mode it shows a spinner instead of one line per number.
type Console struct {
	w     io.Writer
	color *colorstring.Colorize
	bar   *progressbar.ProgressBar
}

func NewConsole(w io.Writer, color, progress bool) *Console {
	c := &Console{
		w: w,
		color: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !color,
		},
	}
	if progress {
		c.bar = progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription("generating"),
			progressbar.OptionShowCount(),
			progressbar.OptionSpinnerType(14),
		)
	}
	return c
}

func (c *Console) NumberGenerated(round, number int) {
	if c.bar != nil {
		_ = c.bar.Add(1)
		return
	}
	fmt.Fprintf(c.w, "RandomNumberGenerator: Number generated: '%d'\n", number)
}

func (c *Console) ObserverDetached(round int, o observer.Observer) {
	if c.bar != nil {
		_ = c.bar.Clear()
	}
	d := Describe(o)
	c.println("red", fmt.Sprintf("   >> %s: received '%d' numbers, detached in round %d", d.Name, d.Received, round))
}

// Final prints the end state of an observer.
func (c *Console) Final(o observer.Observer) {
	c.println("yellow", Describe(o).Description)
}

// Finish stops the spinner, if any.
func (c *Console) Finish() {
	if c.bar != nil {
		_ = c.bar.Finish()
		fmt.Fprintln(c.w)
	}
}

// println wraps text in a colour without letting colorstring parse the text itself.
func (c *Console) println(color, text string) {
	fmt.Fprintln(c.w, c.color.Color("["+color+"]")+text+c.color.Color("[reset]"))
}
