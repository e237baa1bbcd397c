// Package preflight provides readiness checks for the external tools and
// filesystem paths albumconv depends on.
//
// The conversion pipeline calls CheckOutputDirectory while validating a batch
// so an unusable destination aborts the run before gain calculation mutates
// any source file. The CLI "albumconv deps" command uses CheckSystemDeps to
// display tool availability.
package preflight
