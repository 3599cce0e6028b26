package output

import "gopkg.in/yaml.v3"

// YAMLFormatter serializes the tax report as YAML, matching the ledger file style.
type YAMLFormatter struct{}

func (y YAMLFormatter) Name() string      { return "yaml" }
func (y YAMLFormatter) Extension() string { return "yaml" }

func (y YAMLFormatter) Format(report *Report) ([]byte, error) {
	return yaml.Marshal(report)
}
