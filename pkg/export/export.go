// Package export assembles the per-document derived fragment: the
// structure tree plus the anchored cross-references, serialized
// deterministically so repeated runs over identical input produce
// byte-identical output.
package export

import (
	"encoding/json"
	"fmt"

	"github.com/coolbeans/bdlex/pkg/anchor"
	"github.com/coolbeans/bdlex/pkg/structure"
)

// Fragment is the derived export for one document.
type Fragment struct {
	Structure       *structure.Tree    `json:"structure"`
	CrossReferences []anchor.Reference `json:"cross_references"`
}

// New builds a Fragment. A nil reference slice becomes an empty one so
// the serialized form always carries a list, never null.
func New(tree *structure.Tree, refs []anchor.Reference) Fragment {
	if refs == nil {
		refs = []anchor.Reference{}
	}
	return Fragment{Structure: tree, CrossReferences: refs}
}

// Encode serializes the fragment as indented JSON. Ordering is fully
// determined by struct field order and the slices' own order; nothing in
// the fragment round-trips through a map.
func (f Fragment) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(f, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode export fragment: %w", err)
	}
	return data, nil
}
