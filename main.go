package main

import (
	"os"

	"arcrun/cmd"
	"arcrun/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(errors.GetExitCode(err))
	}
}
