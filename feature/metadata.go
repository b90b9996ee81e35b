package feature

import "fmt"

/*
Metadata describes the columns of a labeled dataset: the ordered continuous
features (their position is the feature index used by trees) and the label
feature to predict.

MaxDepth is the default growth limit to apply when growing trees from data
described by the metadata, nil meaning unbounded.
*/
type Metadata struct {
	Features []*ContinuousFeature
	Label    *DiscreteFeature
	MaxDepth *int
}

/*
FeatureNames returns the names of the metadata features in index order.
*/
func (md *Metadata) FeatureNames() []string {
	names := make([]string, len(md.Features))
	for i, f := range md.Features {
		names[i] = f.Name()
	}
	return names
}

/*
Index returns the feature index for the feature with the given name, or -1
if there is none.
*/
func (md *Metadata) Index(name string) int {
	for i, f := range md.Features {
		if f.Name() == name {
			return i
		}
	}
	return -1
}

/*
Validate returns an error if the metadata does not describe a usable
dataset: no label, no features or repeated names.
*/
func (md *Metadata) Validate() error {
	if md.Label == nil || md.Label.Name() == "" {
		return fmt.Errorf("metadata has no label feature")
	}
	if len(md.Features) == 0 {
		return fmt.Errorf("metadata has no features")
	}
	seen := map[string]bool{md.Label.Name(): true}
	for _, f := range md.Features {
		if f.Name() == "" {
			return fmt.Errorf("metadata has a feature without name")
		}
		if seen[f.Name()] {
			return fmt.Errorf("metadata declares %s more than once", f.Name())
		}
		seen[f.Name()] = true
	}
	if md.MaxDepth != nil && *md.MaxDepth < 0 {
		return fmt.Errorf("metadata maxDepth must not be negative, got %d", *md.MaxDepth)
	}
	return nil
}
