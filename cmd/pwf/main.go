package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"pwf/internal/errs"
)

func main() {
	cmd := newRootCommand()
	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, err)
		}
		if errs.IsFatalPolicy(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
