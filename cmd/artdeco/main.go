// Command artdeco inspects Go function signatures and binds calls against them.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/zoobzio/artdeco/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(cli.GetExitCode(err))
	}
}
