package orchestrator

// Stage identifies how far an exercise's pipeline progressed. The pipeline
// is a straight line: Staged, Compiled, Executed, Proved, Verified, Done,
// with failure possible at every step.
type Stage int

const (
	StageStaged Stage = iota
	StageCompiled
	StageExecuted
	StageProved
	StageVerified
	StageDone
)

var stageNames = map[Stage]string{
	StageStaged:   "staged",
	StageCompiled: "compiled",
	StageExecuted: "executed",
	StageProved:   "proved",
	StageVerified: "verified",
	StageDone:     "done",
}

func (stage Stage) String() string {
	if name, known := stageNames[stage]; known {
		return name
	}
	return "unknown"
}

// Outcome classifies one pipeline run. It is recomputed fresh for every
// run; proof artifacts and source files change between invocations.
type Outcome struct {
	// Stage is the last stage the pipeline worked on: the failing stage
	// when Err is set, StageDone otherwise.
	Stage Stage
	// Output is the captured tool output on success.
	Output string
	// Err is the failure cause, nil on success.
	Err error
}

// Failed reports whether the pipeline stopped short of completion.
func (outcome Outcome) Failed() bool { return outcome.Err != nil }

// Reached distinguishes "this step failed" from "an upstream step failed
// first and this step was never attempted".
func (outcome Outcome) Reached(stage Stage) bool {
	return outcome.Stage >= stage
}

func succeededAt(output string) Outcome {
	return Outcome{Stage: StageDone, Output: output}
}

func failedAt(stage Stage, cause error) Outcome {
	return Outcome{Stage: stage, Err: cause}
}
