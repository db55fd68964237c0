package main

import (
	"fmt"
	"os"

	"github.com/nihei9/dil/analyzer"
	"github.com/nihei9/dil/diagnostic"
	"github.com/nihei9/dil/generator"
	"github.com/nihei9/dil/loader"
	"github.com/nihei9/dil/parser"
	"github.com/spf13/cobra"
)

var generateFlags = struct {
	output  *string
	pkgName *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "generate <grammar file>",
		Short:   "Generate a Go recursive-descent recognizer from a grammar description file",
		Example: `  dil generate grammar.dil -o grammar_parser.go`,
		Args:    cobra.ExactArgs(1),
		RunE:    runGenerate,
	}
	generateFlags.output = cmd.Flags().StringP("output", "o", "", "output file path (default: stdout)")
	generateFlags.pkgName = cmd.Flags().String("package", "grammar", "package name of the generated file")
	rootCmd.AddCommand(cmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	src, err := loader.Load(args[0])
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", args[0], err)
	}

	tr := parser.Parse(src)
	analyzer.Analyze(src, tr)
	if src.Errors > 0 {
		diagnostic.WriteAll(os.Stderr, src)
		return fmt.Errorf("%s has errors; fix them before generating a parser", args[0])
	}

	code, err := generator.Generate(tr, *generateFlags.pkgName)
	if err != nil {
		return fmt.Errorf("generate parser: %w", err)
	}

	if *generateFlags.output == "" {
		_, err = os.Stdout.Write(code)
		return err
	}
	return os.WriteFile(*generateFlags.output, code, 0644)
}
