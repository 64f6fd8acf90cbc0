package constants

// Stage identifies where a pipeline run currently is.
type Stage string

// Stable values (stored verbatim in the run history).
const (
	StageResources Stage = "RESOURCES" // host memory/disk inspection
	StageBackend   Stage = "BACKEND"   // backend readiness + model registry
	StageInput     Stage = "INPUT"     // input document validation
	StageExtract   Stage = "EXTRACT"   // text extraction
	StageText      Stage = "TEXT"      // extracted-text validation
	StageGenerate  Stage = "GENERATE"  // bounded generation retry loop
	StageOutput    Stage = "OUTPUT"    // output parse + schema validation
)

// RunStatus is the canonical status for rows in the run history.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "RUNNING"
	RunStatusSucceeded RunStatus = "SUCCEEDED"
	RunStatusFailed    RunStatus = "FAILED"
)
