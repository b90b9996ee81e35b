/*
Package json provides methods to parse feature.Metadata specifications
from JSON documents.
*/
package json

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/pbanos/bonsai/feature"
)

type metadata struct {
	Features    []string `json:"features"`
	Label       string   `json:"label"`
	LabelValues []string `json:"labelValues"`
	MaxDepth    *int     `json:"maxDepth"`
}

/*
ReadMetadata takes a slice of bytes with a metadata specification in JSON
and returns the metadata parsed from it or an error.
The JSON is expected to be an object with the same properties as the YML
metadata documents:
  - "features": an array with the names of the continuous features, in the
    order that determines their feature index
  - "label": the name of the label feature
  - "labelValues": an optional array with the valid label values
  - "maxDepth": an optional non-negative integer with the default maximum
    depth of grown trees

Unknown properties are rejected.
*/
func ReadMetadata(md []byte) (*feature.Metadata, error) {
	dec := json.NewDecoder(bytes.NewReader(md))
	dec.DisallowUnknownFields()
	raw := &metadata{}
	err := dec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing json metadata: %w", err)
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
ReadMetadata to parse it.
*/
func ReadMetadataFromFile(filepath string) (*feature.Metadata, error) {
	md, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading metadata json file %s: %w", filepath, err)
	}
	result, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing metadata json file %s: %w", filepath, err)
	}
	return result, err
}
