package analyzer

import (
	"encoding/json"
	"fmt"

	"printlab/pkg/errors"
)

// Output is the JSON document an analyzer writes to stdout. An analyzer may
// exit 0 and still report a domain failure through the Error field.
type Output struct {
	Dimensions     map[string]float64     `json:"dimensions,omitempty"`
	Volume         *float64               `json:"volume"`
	Area           *float64               `json:"area"`
	Layers         *int                   `json:"layers"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
	AnalysisTimeMs int64                  `json:"analysis_time_ms"`
	Error          string                 `json:"error,omitempty"`
	Traceback      string                 `json:"traceback,omitempty"`
}

// ParseOutput decodes stdout as a single JSON document and surfaces
// analyzer-reported errors as failures. The raw stdout/stderr is preserved in
// the error for diagnosis.
func ParseOutput(stdout, stderr string) (*Output, map[string]interface{}, error) {
	var output Output
	if err := json.Unmarshal([]byte(stdout), &output); err != nil {
		return nil, nil, errors.InvalidOutputFormat(
			fmt.Sprintf("analyzer emitted unparsable output; stdout: %s; stderr: %s", stdout, stderr),
			err,
		)
	}

	if output.Error != "" {
		return nil, nil, errors.AnalyzerError(output.Error, output.Traceback)
	}

	var raw map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &raw); err != nil {
		raw = nil
	}

	return &output, raw, nil
}
