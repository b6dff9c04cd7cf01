package cmd

import (
	"fmt"
	"io"
	"os"
)

// Die prints a framed error report to stderr and exits with status 1.
func Die(context string, err error) {
	writeDieBox(os.Stderr, context, err)
	os.Exit(1)
}

func writeDieBox(w io.Writer, context string, err error) {
	fmt.Fprintf(w, "\n---------------------------------------------------------\n")
	fmt.Fprintf(w, "CUBE SCANNER ERROR: %s\n", context)
	if err != nil {
		fmt.Fprintf(w, "DETAILS: %v\n", err)
	}
	fmt.Fprintf(w, "---------------------------------------------------------\n")
}
