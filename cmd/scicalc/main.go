// Command scicalc integrates, differentiates and sums real functions at
// arbitrary binary precision.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jonwraymond/scicalc/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}

	var exitErr *cli.ExitError
	if errors.As(err, &exitErr) {
		os.Exit(exitErr.Code)
	}
	// Flag and argument errors from cobra itself.
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(cli.ExitCommandError)
}
