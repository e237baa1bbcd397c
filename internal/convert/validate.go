package convert

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"albumconv/internal/fileutil"
	"albumconv/internal/preflight"
	"albumconv/internal/services"
)

const validateStage = "validate"

var (
	// ErrNoSources reports a batch left empty after excluded files are dropped.
	ErrNoSources = errors.New("no audio files to convert")
	// ErrDuplicateStem reports two sources that map to the same output file.
	ErrDuplicateStem = errors.New("sources share an output name")
	// ErrSourceInOutput reports a source stored directly in the output directory.
	ErrSourceInOutput = errors.New("source is inside the output directory")
)

// validate filters and checks the requested sources and output directory.
// Skipped files are returned on the batch even when validation fails.
func (o *Orchestrator) validate(sources []string, outputDir string) (Batch, error) {
	batch := Batch{OutputDir: filepath.Clean(outputDir)}
	for _, source := range sources {
		if o.cfg.IsExcluded(source) {
			batch.Skipped = append(batch.Skipped, source)
			continue
		}
		batch.Sources = append(batch.Sources, source)
	}
	if len(batch.Sources) == 0 {
		return batch, services.Wrap(services.ErrValidation, validateStage, "sources", "", ErrNoSources)
	}

	for _, source := range batch.Sources {
		info, err := os.Stat(source)
		if err != nil {
			return batch, services.Wrap(services.ErrValidation, validateStage, "sources", "", err)
		}
		if !info.Mode().IsRegular() {
			return batch, services.Wrap(services.ErrValidation, validateStage, "sources", source+" is not a regular file", nil)
		}
	}

	result, err := preflight.CheckOutputDirectory(batch.OutputDir)
	if err != nil {
		return batch, services.Wrap(services.ErrValidation, validateStage, "output directory", "", err)
	}
	if !result.Passed {
		return batch, services.Wrap(services.ErrValidation, validateStage, "output directory", result.Detail, nil)
	}

	if first, second, found := fileutil.DuplicateStem(batch.Sources); found {
		return batch, services.Wrap(services.ErrValidation, validateStage, "sources",
			fmt.Sprintf("%s and %s", first, second), ErrDuplicateStem)
	}
	for _, source := range batch.Sources {
		if fileutil.SameDirectory(source, batch.OutputDir) {
			return batch, services.Wrap(services.ErrValidation, validateStage, "sources", source, ErrSourceInOutput)
		}
	}
	return batch, nil
}
