package engine

import (
	_ "embed"

	"gopkg.in/yaml.v3"
)

//go:embed signatures.yaml
var signaturesYAML []byte

// signatureTables holds the static vendor fingerprint lists. These are
// lookup tables, not learned detectors; edit signatures.yaml to version them.
type signatureTables struct {
	CallTracking      []string `yaml:"call_tracking"`
	FormVendors       []string `yaml:"form_vendors"`
	SchedulingWidgets []string `yaml:"scheduling_widgets"`
}

var signatures = loadSignatures()

func loadSignatures() signatureTables {
	var t signatureTables
	if err := yaml.Unmarshal(signaturesYAML, &t); err != nil {
		// The table is embedded at build time; failing to parse it is a
		// build defect, not a runtime condition.
		panic("engine: parse signatures.yaml: " + err.Error())
	}
	return t
}
