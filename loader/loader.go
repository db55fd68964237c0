// Package loader is the "Loader" collaborator spec.md §6 describes: given
// a path, it returns a source view with bytes read into memory, or a
// source with Errors > 0 if the file is missing or carries the wrong
// extension.
//
// Grounded on cmd/vartan/compile.go's readGrammar (open, read fully,
// wrap the error) and the original dil_source_load
// (original_source/src/dil/source.c), which reads the file in bounded
// chunks into a growable buffer — here io.ReadAll plays that role, since
// it already grows its buffer with amortized growth the way the manual
// chunk loop does by hand.
package loader

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/nihei9/dil/source"
)

// Extension is the only recognized DIL source extension (spec.md §6).
const Extension = ".dil"

// Load opens path, validates its extension, and reads its full contents
// into a *source.Source. If the file does not exist or has the wrong
// extension, it returns a source with Errors == 1 describing the
// problem, matching the "Loader" collaborator's contract of never
// returning a bare Go error from a missing/misnamed source file — only
// from conditions the caller cannot meaningfully recover from (e.g. an
// I/O error mid-read).
func Load(path string) (*source.Source, error) {
	src := source.New(path, nil)

	if ext := filepath.Ext(path); ext != Extension {
		src.Errors++
		src.Diagnostics = append(src.Diagnostics, source.Diagnostic{
			Severity: source.SeverityError,
			Message:  fmt.Sprintf("%s does not have the %s extension!", path, Extension),
		})
		return src, nil
	}

	f, err := os.Open(path)
	if err != nil {
		src.Errors++
		src.Diagnostics = append(src.Diagnostics, source.Diagnostic{
			Severity: source.SeverityError,
			Message:  fmt.Sprintf("could not open file %s!", path),
		})
		return src, nil
	}
	defer f.Close()

	bytes, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	src.Bytes = bytes
	return src, nil
}
