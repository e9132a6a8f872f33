// Command fieldmap runs the upload pipeline on a local file: it classifies
// columns against the business field catalog and prints mappings, metrics
// or chart series.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/JonMunkholm/datalens/internal/core"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd(os.Stdout, os.Stderr).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if core.IsUserFacing(err) {
			fmt.Fprintln(os.Stderr, core.FormatUserError(err))
		}
		stop()
		os.Exit(1)
	}
}
