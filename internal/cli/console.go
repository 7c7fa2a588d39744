package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
	"golang.org/x/term"

	"github.com/mmynk/expenses/internal/calculator"
	"github.com/mmynk/expenses/internal/models"
)

var (
	boldCyan    = color.New(color.FgCyan, color.Bold).SprintFunc()
	brightGreen = color.New(color.FgGreen, color.Bold).SprintFunc()
)

// Console renders views to the terminal.
type Console struct {
	out         io.Writer
	interactive bool
}

// NewConsole creates a Console writing to out, or stdout when nil.
func NewConsole(out io.Writer) *Console {
	if out == nil {
		out = os.Stdout
	}
	c := &Console{out: out}
	if f, ok := out.(*os.File); ok {
		c.interactive = term.IsTerminal(int(f.Fd()))
	}
	return c
}

// Title prints a view title.
func (c *Console) Title(title string) {
	fmt.Fprintln(c.out, boldCyan(title))
}

func (c *Console) Info(format string, a ...any) {
	pterm.Info.WithWriter(c.out).Printfln(format, a...)
}

func (c *Console) Success(format string, a ...any) {
	pterm.Success.WithWriter(c.out).Printfln(format, a...)
}

// ErrorOverlay prints the full-width error notice for a failed mutation.
func (c *Console) ErrorOverlay(message string) {
	pterm.Error.WithWriter(c.out).Println(message)
}

// Overlay shows a blocking spinner until Stop is called.
type Overlay struct {
	spinner *pterm.SpinnerPrinter
}

// BlockingOverlay starts a spinner with the given text.
// Off a terminal it prints nothing and Stop is a no-op.
func (c *Console) BlockingOverlay(text string) *Overlay {
	if !c.interactive {
		return &Overlay{}
	}
	spinner, _ := pterm.DefaultSpinner.WithWriter(c.out).WithRemoveWhenDone(true).Start(text)
	return &Overlay{spinner: spinner}
}

// Stop removes the spinner. Safe to call more than once.
func (o *Overlay) Stop() {
	if o != nil && o.spinner != nil {
		o.spinner.Stop()
		o.spinner = nil
	}
}

// ExpenseList prints a period summary as a table, or fallback when empty.
func (c *Console) ExpenseList(summary calculator.Summary, fallback string) error {
	fmt.Fprintf(c.out, "%s  %s\n", boldCyan(summary.PeriodName), brightGreen(fmt.Sprintf("$%.2f", summary.Total)))
	if len(summary.Expenses) == 0 {
		fmt.Fprintln(c.out, fallback)
		return nil
	}

	data := pterm.TableData{{"ID", "Date", "Description", "Amount"}}
	for _, e := range summary.Expenses {
		data = append(data, []string{
			e.ID,
			models.FormatDate(e.Date),
			e.Description,
			fmt.Sprintf("$%.2f", e.Amount),
		})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(c.out).WithData(data).Render()
}
