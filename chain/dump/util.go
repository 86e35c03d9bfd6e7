package dump

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrDumpExists is returned when a dump with the same ID is already in the
// directory: dumps are never overwritten.
var ErrDumpExists = errors.New("dump already exists")

// checkNewDump makes sure none of the dump files is there yet.
func checkNewDump(id ID, paths ...string) error {
	for _, p := range paths {
		_, err := os.Stat(p)
		switch {
		case err == nil:
			return fmt.Errorf("%w: %s (%s)", ErrDumpExists, id, p)
		case !errors.Is(err, fs.ErrNotExist):
			return fmt.Errorf("check %s dump file %s: %w", id, p, err)
		}
	}
	return nil
}
