package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/traintrack-sc/athlete/internal/client"
)

func main() {
	cmd := newRootCmd()

	if err := cmd.Execute(); err != nil {
		printError(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

// printError reports a command failure, using the friendly message for API errors
func printError(w io.Writer, err error) {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnauthenticated):
		fmt.Fprintln(w, "Session expired. Run 'traintrack session set <token>' to sign in again.")
	case errors.As(err, &apiErr):
		fmt.Fprintf(w, "%s (status %d: %s)\n", apiErr.UserError(), apiErr.StatusCode, apiErr.Message)
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}
