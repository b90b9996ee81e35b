package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/bonsai/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding node records into slices of
bytes and decoding them back to node records.
*/
type NodeEncodeDecoder interface {

	//Encode receives a *tree.NodeRecord
	// and returns a slice of bytes with the record
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(*tree.NodeRecord) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a *tree.NodeRecord decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (*tree.NodeRecord, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	ID           string  `json:"id"`
	ParentID     string  `json:"pId,omitempty"`
	Leaf         bool    `json:"leaf,omitempty"`
	Label        string  `json:"label,omitempty"`
	FeatureIndex int     `json:"f,omitempty"`
	Threshold    float64 `json:"t,omitempty"`
	LeftID       string  `json:"l,omitempty"`
	RightID      string  `json:"r,omitempty"`
	FeatureCount int     `json:"fc,omitempty"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that encodes node records
as JSON objects with the following fields:
  - "id": the ID of the node
  - "pId": the ID of the parent node, absent for the root
  - "leaf": true for leaves, absent for decision nodes
  - "label": the label predicted by a leaf
  - "f" and "t": the feature index and threshold of a decision node
  - "l" and "r": the IDs of the left and right subtrees of a decision node
  - "fc": the feature count of the tree, only set for the root
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return &nodeEncodeDecoder{}
}

func (ned *nodeEncodeDecoder) Encode(n *tree.NodeRecord) ([]byte, error) {
	jn := &node{
		ID:           n.ID,
		ParentID:     n.ParentID,
		FeatureCount: n.FeatureCount,
	}
	if n.Leaf {
		jn.Leaf = true
		jn.Label = n.Label
	} else {
		jn.FeatureIndex = n.FeatureIndex
		jn.Threshold = n.Threshold
		jn.LeftID = n.LeftID
		jn.RightID = n.RightID
	}
	return json.Marshal(jn)
}

func (ned *nodeEncodeDecoder) Decode(data []byte) (*tree.NodeRecord, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	if jn.ID == "" {
		return nil, fmt.Errorf("unmarshalling node: no id")
	}
	return &tree.NodeRecord{
		ID:           jn.ID,
		ParentID:     jn.ParentID,
		Leaf:         jn.Leaf,
		Label:        jn.Label,
		FeatureIndex: jn.FeatureIndex,
		Threshold:    jn.Threshold,
		LeftID:       jn.LeftID,
		RightID:      jn.RightID,
		FeatureCount: jn.FeatureCount,
	}, nil
}
