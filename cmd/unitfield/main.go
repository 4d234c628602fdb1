package main

import (
	"errors"
	"os"

	"github.com/rshade/unitfield/internal/cli"
	"github.com/rshade/unitfield/pkg/version"
)

func main() {
	if err := run(); err != nil {
		os.Exit(extractCheckExitCode(err))
	}
}

func run() error {
	return cli.NewRootCmd(version.GetVersion()).Execute()
}

// extractCheckExitCode maps err to a process exit code: 0 for nil, the
// carried code for a failed check, 1 otherwise.
func extractCheckExitCode(err error) int {
	if err == nil {
		return 0
	}
	var checkErr *cli.CheckExitError
	if errors.As(err, &checkErr) {
		return checkErr.ExitCode
	}
	return 1
}
