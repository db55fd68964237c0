package main

import (
	"fmt"
	"os"

	"github.com/nihei9/dil/analyzer"
	"github.com/nihei9/dil/diagnostic"
	"github.com/nihei9/dil/loader"
	"github.com/nihei9/dil/parser"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:     "check <grammar files...>",
		Short:   "Check grammar description files for syntax and semantic errors",
		Example: `  dil check grammar.dil`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    runCheck,
	}
	rootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	hadErrors := false
	for _, path := range args {
		src, err := loader.Load(path)
		if err != nil {
			return fmt.Errorf("cannot read %s: %w", path, err)
		}

		tr := parser.Parse(src)
		analyzer.Analyze(src, tr)

		diagnostic.WriteAll(os.Stdout, src)
		if src.Errors > 0 {
			hadErrors = true
		}
	}
	if hadErrors {
		return fmt.Errorf("one or more grammar files had errors")
	}
	return nil
}
