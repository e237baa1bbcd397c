// Package convert orchestrates one album conversion.
//
// A batch moves through a fixed state machine:
//
//	Validating -> GainPhase -> TranscodePhase -> Done
//	     \             \
//	      `-> Aborted   `-> Aborted
//
// Validating filters non-audio inputs, confirms every source exists, rejects
// unusable output paths and takes an exclusive lock on the output directory.
// GainPhase requires a homogeneous batch and runs the album gain tool once.
// TranscodePhase creates the output directory and fans jobs out to a bounded
// worker pool; each job detects, transcodes and tags one file. Job failures
// are recorded in the Report and never stop other jobs.
//
// Key types:
//   - Orchestrator: owns the phase collaborators and runs batches
//   - Report: batch id, final state and per-job outcomes
//
// Primary entry point:
//   - Orchestrator.Run
package convert
