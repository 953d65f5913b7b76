package main

import (
	"context"
	"fmt"
	"os"

	app "github.com/valter-silva-au/datawork/internal"
	"github.com/valter-silva-au/datawork/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	basePath := app.ResolveBasePath()

	a, err := app.NewApp(context.Background(), basePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing dw: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute()
	_ = a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
