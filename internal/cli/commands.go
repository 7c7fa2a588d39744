package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mmynk/expenses/internal/calculator"
	"github.com/mmynk/expenses/internal/export"
	"github.com/mmynk/expenses/internal/models"
	"github.com/mmynk/expenses/internal/remote"
)

func (app *App) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.sessionFor(cmd)
			if err != nil {
				return err
			}
			summary := calculator.Summarize("Total", s.store.Expenses())
			return app.console.ExpenseList(summary, "No registered expenses found.")
		},
	}
}

func (app *App) recentCmd() *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List expenses of the last days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return fmt.Errorf("--days must be positive")
			}
			s, err := app.sessionFor(cmd)
			if err != nil {
				return err
			}
			recent := calculator.Recent(s.store.Expenses(), time.Now(), days)
			summary := calculator.Summarize(fmt.Sprintf("Last %d Days", days), recent)
			return app.console.ExpenseList(summary, fmt.Sprintf("No expenses registered for the last %d days.", days))
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "Number of days to include")
	return cmd
}

func addFormFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("description", "d", "", "Expense description")
	cmd.Flags().Float64P("amount", "a", 0, "Expense amount")
	cmd.Flags().String("date", "", "Expense date (YYYY-MM-DD, default today)")
}

// readForm overlays the changed form flags on defaults.
func readForm(cmd *cobra.Command, defaults models.ExpenseData) (models.ExpenseData, error) {
	data := defaults
	flags := cmd.Flags()
	if flags.Changed("description") {
		data.Description, _ = flags.GetString("description")
	}
	if flags.Changed("amount") {
		data.Amount, _ = flags.GetFloat64("amount")
	}
	if flags.Changed("date") {
		raw, _ := flags.GetString("date")
		date, err := models.ParseDate(raw)
		if err != nil {
			return models.ExpenseData{}, err
		}
		data.Date = date
	}
	return data, nil
}

func (app *App) addCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readForm(cmd, models.ExpenseData{Date: models.NormalizeDate(time.Now())})
			if err != nil {
				return err
			}
			s, err := app.sessionFor(cmd)
			if err != nil {
				return err
			}
			return app.newForm(s, "").Confirm(cmd.Context(), data)
		},
	}
	addFormFlags(cmd)
	cmd.MarkFlagRequired("description")
	cmd.MarkFlagRequired("amount")
	return cmd
}

func (app *App) editCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an expense; unset fields keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.sessionFor(cmd)
			if err != nil {
				return err
			}
			current, ok := s.store.Find(args[0])
			if !ok {
				return fmt.Errorf("no expense with id %s", args[0])
			}
			data, err := readForm(cmd, current.Data())
			if err != nil {
				return err
			}
			return app.newForm(s, args[0]).Confirm(cmd.Context(), data)
		},
	}
	addFormFlags(cmd)
	return cmd
}

func (app *App) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := app.sessionFor(cmd)
			if err != nil {
				return err
			}
			return app.newForm(s, args[0]).Delete(cmd.Context())
		},
	}
}

func (app *App) exportCmd() *cobra.Command {
	var format, dir, name string
	var days int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses as a CSV, JSON or PDF report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := app.options(cmd)
			if err != nil {
				return err
			}
			f, err := export.ParseFormat(firstNonEmpty(format, opts.ReportFormat, string(export.CSV)))
			if err != nil {
				return err
			}
			s, err := app.openSession(cmd.Context(), opts)
			if err != nil {
				return err
			}

			list := s.store.Expenses()
			period := "Total"
			if days > 0 {
				list = calculator.Recent(list, time.Now(), days)
				period = fmt.Sprintf("Last %d Days", days)
			}
			path, err := export.ToFile(firstNonEmpty(dir, opts.ReportDir), name, f, calculator.Summarize(period, list))
			if err != nil {
				return err
			}
			app.console.Success("Report written to %s", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Report format: csv, json, pdf (default csv)")
	cmd.Flags().StringVar(&dir, "dir", "", "Directory to save the report (default current directory)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "Report file name without extension")
	cmd.Flags().IntVar(&days, "days", 0, "Only include the last N days")
	return cmd
}

func (app *App) tokenCmd() *cobra.Command {
	var password string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Request a bearer token from the expense service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := app.options(cmd)
			if err != nil {
				return err
			}
			if password == "" {
				if password, err = promptPassword(); err != nil {
					return err
				}
			}
			tok, err := remote.NewHTTP(opts.Server, "").RequestToken(cmd.Context(), password)
			if err != nil {
				return err
			}
			app.console.Info("Token valid until %s", time.Unix(tok.ExpiresAt, 0).Format(time.RFC3339))
			fmt.Fprintln(cmd.OutOrStdout(), tok.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&password, "password", "", "Service password (prompted when omitted)")
	return cmd
}

func promptPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("--password is required when stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, "Password: ")
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(b), nil
}

func (app *App) sessionFor(cmd *cobra.Command) (*session, error) {
	opts, err := app.options(cmd)
	if err != nil {
		return nil, err
	}
	return app.openSession(cmd.Context(), opts)
}
