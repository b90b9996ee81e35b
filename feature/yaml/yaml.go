/*
Package yaml provides methods to parse feature.Metadata specifications
from YAML documents.
*/
package yaml

import (
	"fmt"
	"os"

	"github.com/pbanos/bonsai/feature"
	yaml "gopkg.in/yaml.v2"
)

type metadata struct {
	Features    []string `yaml:"features"`
	Label       string   `yaml:"label"`
	LabelValues []string `yaml:"labelValues"`
	MaxDepth    *int     `yaml:"maxDepth"`
}

/*
ReadMetadata takes a slice of bytes with a metadata specification in YML and
returns the metadata parsed from it or an error.
The YML is expected to be an object with the following properties:
  - features: a list with the names of the continuous features, in the order
    that determines their feature index
  - label: the name of the label feature
  - labelValues: an optional list of the valid label values
  - maxDepth: an optional non-negative integer with the default maximum
    depth of grown trees
*/
func ReadMetadata(md []byte) (*feature.Metadata, error) {
	raw := &metadata{}
	err := yaml.UnmarshalStrict(md, raw)
	if err != nil {
		return nil, fmt.Errorf("parsing yml metadata: %v", err)
	}
	if raw.Features == nil {
		return nil, fmt.Errorf("metadata has no feature information")
	}
	result := &feature.Metadata{
		Features: make([]*feature.ContinuousFeature, 0, len(raw.Features)),
		Label:    feature.NewDiscreteFeature(raw.Label, raw.LabelValues),
		MaxDepth: raw.MaxDepth,
	}
	for _, name := range raw.Features {
		result.Features = append(result.Features, feature.NewContinuousFeature(name))
	}
	err = result.Validate()
	if err != nil {
		return nil, err
	}
	return result, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*feature.Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata yml file %s: %v", filepath, err)
	}
	result, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata yml file %s: %v", filepath, err)
	}
	return result, err
}
