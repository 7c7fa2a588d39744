package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mmynk/expenses/internal/cli"
)

func main() {
	app := cli.NewApp(os.Stdout)
	if err := app.Execute(); err != nil {
		// The error overlay has already been shown for unsaved changes.
		if !errors.Is(err, cli.ErrNotSaved) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
