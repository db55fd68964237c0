package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nihei9/dil/diagnostic"
	"github.com/nihei9/dil/loader"
	"github.com/nihei9/dil/parser"
	"github.com/nihei9/dil/tree"
	"github.com/spf13/cobra"
)

var parseFlags = struct {
	onlyErrors *bool
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar file>",
		Short:   "Print the parse tree of a grammar description file",
		Example: `  dil parse grammar.dil`,
		Args:    cobra.ExactArgs(1),
		RunE:    runParse,
	}
	parseFlags.onlyErrors = cmd.Flags().Bool("only-errors", false, "suppress the tree dump and print only diagnostics")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	src, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	tr := parser.Parse(src)

	if !*parseFlags.onlyErrors {
		printTree(os.Stdout, tr, 0, 0)
	}
	diagnostic.WriteAll(os.Stdout, src)

	if src.Errors > 0 {
		return fmt.Errorf("%d syntax error(s)", src.Errors)
	}
	return nil
}

// printTree dumps the tree as an indented, pre-order listing: one line
// per node, showing its symbol and the exact text it spans.
func printTree(w io.Writer, t *tree.Tree, idx, depth int) {
	n := t.At(idx)
	fmt.Fprintf(w, "%s%s %q\n", strings.Repeat("  ", depth), n.Symbol, t.Text(idx))
	for k := 0; k < n.Children; k++ {
		printTree(w, t, t.WalkChild(idx, k), depth+1)
	}
}
