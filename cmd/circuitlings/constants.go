package circuitlings

const (
	rootCommandUse   = "circuitlings"
	rootCommandShort = "Exercise runner for proof-circuit exercises"

	runCommandUse      = "run EXERCISE"
	runCommandShort    = "Run one exercise's pipeline for its declared mode"
	verifyCommandUse   = "verify"
	verifyCommandShort = "Run every exercise in manifest order, stopping at the first problem"
	listCommandUse     = "list"
	listCommandShort   = "List exercises with their mode and completion state"
	hintCommandUse     = "hint EXERCISE"
	hintCommandShort   = "Show the hint for an exercise"
	resetCommandUse    = "reset EXERCISE"
	resetCommandShort  = "Discard local edits to an exercise's source file"

	configFlagName     = "config"
	configFlagUsage    = "Path to a circuitlings configuration file"
	manifestFlagName   = "manifest"
	manifestFlagUsage  = "Path to the exercise manifest (info.toml)"
	workspaceFlagName  = "workspace"
	workspaceFlagUsage = "Working area directory for staged exercises"

	doneStateLabel    = "done"
	pendingStateLabel = "pending"
)
