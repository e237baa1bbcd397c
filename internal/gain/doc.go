// Package gain normalizes loudness across an album before it is transcoded.
//
// Each supported source format maps to one external ReplayGain tool that
// analyses every file of the batch in a single invocation (album mode) and
// writes the result back into the sources. The orchestrator treats any
// failure here as fatal for the whole batch.
package gain
