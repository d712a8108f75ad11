package domain

// Catalog is the fixed candidate list plus the child -> parent alias map
// that seeds a filter engine.
type Catalog struct {
	Tags    []TagCandidate
	Aliases map[string]string
}

// Alias is a single child -> parent mapping.
type Alias struct {
	Child  string `json:"child" yaml:"child"`
	Parent string `json:"parent" yaml:"parent"`
}
