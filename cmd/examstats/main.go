package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/SAP-F-2025/exam-prep-service/internal/stats"
)

// Exit codes for different failure modes
const (
	ExitSuccess = 0
	ExitEmpty   = 1 // Nothing matched the selected period
	ExitError   = 2 // Bad input or flags
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)

		if stats.IsEmptyExport(err) || errors.Is(err, errNoAttempts) {
			os.Exit(ExitEmpty)
		}
		os.Exit(ExitError)
	}
}
