// Package diagnostics describes device health for the /diag endpoint.
package diagnostics

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

// Diagnostic is one reportable condition.
type Diagnostic struct {
	Severity Severity `json:"severity"`
	Code     string   `json:"code"`
	Summary  string   `json:"summary"`
	Detail   string   `json:"detail,omitempty"`
}

// Report is a snapshot of the running device, assembled once at
// startup after sensor bring-up and calibration.
type Report struct {
	Driver        string       `json:"driver"`
	Pixels        int          `json:"pixels"`
	SensorOK      bool         `json:"sensor_ok"`
	ThresholdCode int          `json:"threshold_code"`
	TimeLimitCode int          `json:"time_limit_code"`
	Faults        []Diagnostic `json:"faults,omitempty"`
}
