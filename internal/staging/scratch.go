package staging

import (
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
)

// scratchSequence disambiguates scratch files created by concurrent area
// instances within one process; the pid covers concurrent processes.
var scratchSequence atomic.Uint64

func scratchName() string {
	return fmt.Sprintf("temp_%d_%d", os.Getpid(), scratchSequence.Add(1))
}

// withScratch runs fn with a uniquely-named scratch path inside the area
// and removes the file when fn returns. Removal is best-effort; a scratch
// file that was already renamed or never created is not an error.
func (area Area) withScratch(fn func(scratchPath string) error) error {
	scratchPath := filepath.Join(area.root, scratchName())
	defer func() {
		_ = area.fileSystem.Remove(scratchPath)
	}()
	return fn(scratchPath)
}
