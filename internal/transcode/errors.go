package transcode

import "fmt"

// Steps recorded on FailedError.
const (
	StepPrepare  = "prepare"
	StepDecode   = "decode"
	StepValidate = "validate"
	StepEncode   = "encode"
)

// FailedError reports a transcode that did not produce a destination file.
type FailedError struct {
	Source string
	Step   string
	Err    error
}

func (e *FailedError) Error() string {
	return fmt.Sprintf("transcode %s failed at %s: %v", e.Source, e.Step, e.Err)
}

func (e *FailedError) Unwrap() error { return e.Err }
