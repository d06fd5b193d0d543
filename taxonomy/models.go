package taxonomy

// Category mirrors one term of the category vocabulary. ServiceCode is
// the protocol-facing natural key; Hex and Icon feed the extended
// attributes block.
type Category struct {
	ID          string
	Name        string
	ServiceCode string
	Description string
	Keywords    string
	Hex         string
	Icon        string
	ParentID    string
}

// StatusTerm mirrors one term of the status vocabulary.
type StatusTerm struct {
	ID   string
	Name string
	Hex  string
	Icon string
}
