package validate

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/protocontext/compiler/pkg/validator"
)

// ValidateAction checks one or more context.txt files and prints the
// findings. Any error in any file makes the command exit non-zero.
func ValidateAction(c *cli.Context) error {
	if c.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Error: no files given")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  protocontext validate dist/context.txt")
		fmt.Fprintln(os.Stderr, "  protocontext validate dist/about/context.txt dist/products/oak-table/context.txt")
		os.Exit(1)
	}

	invalid := 0
	for _, path := range c.Args().Slice() {
		raw, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", path, err)
			invalid++
			continue
		}

		result := validator.Validate(string(raw))
		printResult(path, result, c.Bool("quiet"))
		if !result.Valid() {
			invalid++
		}
	}

	if invalid > 0 {
		os.Exit(1)
	}
	return nil
}

func printResult(path string, result *validator.Result, quiet bool) {
	if result.Valid() && len(result.Warnings) == 0 {
		if !quiet {
			fmt.Printf("%s: OK\n", path)
		}
		return
	}

	if result.Valid() {
		fmt.Printf("%s: OK (%d warnings)\n", path, len(result.Warnings))
	} else {
		fmt.Printf("%s: INVALID (%d errors, %d warnings)\n", path, len(result.Errors), len(result.Warnings))
	}
	for _, e := range result.Errors {
		fmt.Printf("  error: %s\n", e)
	}
	if !quiet {
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}
}
