package conversation

import (
	"fmt"

	"github.com/hammamikhairi/chefchallenge/internal/logger"
)

// ANSI escape codes for terminal formatting.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	red    = "\033[31m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)

// PrintFunc prints one formatted line. Matches display.UI.Printf.
type PrintFunc func(format string, a ...any)

// Printer writes game messages to the terminal with ANSI styling.
type Printer struct {
	log     *logger.Logger
	printFn PrintFunc
}

// NewPrinter creates a terminal printer. If printFn is nil, fmt.Printf is
// used.
func NewPrinter(log *logger.Logger, printFn PrintFunc) *Printer {
	if printFn == nil {
		printFn = func(format string, a ...any) {
			fmt.Printf(format+"\n", a...)
		}
	}
	return &Printer{log: log, printFn: printFn}
}

// Spoken prints a line the chef says.
func (p *Printer) Spoken(message string) {
	p.log.Debug("spoken: %s", message)
	p.printFn("%s%s%s%s", cyan, bold, message, reset)
}

// Notice prints a neutral message.
func (p *Printer) Notice(format string, a ...any) {
	p.printFn("%s"+format+"%s", append(append([]any{yellow}, a...), reset)...)
}

// Alert prints an error in bold red.
func (p *Printer) Alert(format string, a ...any) {
	msg := fmt.Sprintf(format, a...)
	p.log.Debug("alert: %s", msg)
	p.printFn("%s%s%s%s", red, bold, msg, reset)
}

// Plain prints without styling.
func (p *Printer) Plain(format string, a ...any) {
	p.printFn(format, a...)
}
