package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dil",
	Short: "Parse and analyze grammar description files",
	Long: `dil provides three features:
- Checks a grammar description file for syntax and semantic errors.
- Prints the parse tree of a grammar description file, for debugging.
- Generates a Go recursive-descent parser from a well-formed grammar.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}
