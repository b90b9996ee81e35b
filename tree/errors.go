package tree

// PredictionError represents an error related with predictions
type PredictionError string

func (pe PredictionError) Error() string {
	return string(pe)
}

/*
ErrNilTree is the error returned when asking a nil tree, or a tree without
a root node, to predict labels or to be stored.
*/
const ErrNilTree = PredictionError("nil tree cannot predict")

// StoreError represents an error related with storing and loading trees
type StoreError string

func (se StoreError) Error() string {
	return string(se)
}

/*
ErrNodeNotFound is the error returned when loading a tree whose nodes
reference a node missing from the store.
*/
const ErrNodeNotFound = StoreError("node not found")

/*
ErrMalformedTree is the error returned when the nodes of a tree do not
form a binary tree: a decision node without both children, a feature
index out of range or a node reachable twice.
*/
const ErrMalformedTree = StoreError("malformed tree")
