package convert

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"albumconv/internal/services"
)

// ErrBatchInProgress reports another run converting into the same output
// directory.
var ErrBatchInProgress = errors.New("another conversion is writing to the output directory")

// LockPath returns the lock file guarding outputDir. The lock lives outside
// outputDir because the directory may not exist yet.
func LockPath(outputDir string) string {
	abs, err := filepath.Abs(outputDir)
	if err != nil {
		abs = filepath.Clean(outputDir)
	}
	sum := sha256.Sum256([]byte(abs))
	return filepath.Join(os.TempDir(), "albumconv-"+hex.EncodeToString(sum[:8])+".lock")
}

func acquireLock(outputDir string) (*flock.Flock, error) {
	lock := flock.New(LockPath(outputDir))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, validateStage, "acquire lock", lock.Path(), err)
	}
	if !ok {
		return nil, services.Wrap(services.ErrValidation, validateStage, "acquire lock", outputDir, ErrBatchInProgress)
	}
	return lock, nil
}
