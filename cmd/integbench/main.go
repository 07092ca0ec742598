package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agbru/integbench/internal/app"
	apperrors "github.com/agbru/integbench/internal/errors"
	"github.com/agbru/integbench/internal/integrate"
)

func main() {
	// The isolated strategy re-executes this binary as a worker.
	if integrate.IsWorkerProcess() {
		if err := integrate.ServeWorker(os.Stdin, os.Stdout, integrate.DefaultRegistry()); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(apperrors.ExitErrorGeneric)
		}
		return
	}

	if app.HasVersionFlag(os.Args[1:]) {
		app.PrintVersion(os.Stdout)
		return
	}

	application, err := app.New(os.Args, os.Stderr)
	if err != nil {
		if app.IsHelpError(err) {
			os.Exit(apperrors.ExitSuccess)
		}
		os.Exit(apperrors.ExitErrorConfig)
	}

	os.Exit(application.Run(context.Background(), os.Stdout))
}
