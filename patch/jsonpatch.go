package patch

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"
)

type rfcOp struct {
	Op    Op              `json:"op"`
	Path  string          `json:"path"`
	Value json.RawMessage `json:"value,omitempty"`
}

// ToJSONPatch renders ps as an RFC 6902 document. Values carried by set
// removals are dropped; RFC 6902 removes by position.
func (ps Patches) ToJSONPatch() ([]byte, error) {
	res := make([]rfcOp, 0, len(ps))
	for _, p := range ps {
		op := rfcOp{Op: p.Op, Path: p.Path.JSONPointer()}
		if p.Op != OpRemove {
			d, err := p.Value.MarshalJSON()
			if err != nil {
				return nil, err
			}
			op.Value = d
		}
		res = append(res, op)
	}
	return json.Marshal(res)
}

// ApplyJSON applies ps to a JSON document using an RFC 6902 engine.
func ApplyJSON(doc []byte, ps Patches) ([]byte, error) {
	d, err := ps.ToJSONPatch()
	if err != nil {
		return nil, err
	}
	return ApplyJSONPatch(doc, d)
}

// ApplyJSONPatch applies an RFC 6902 document to a JSON document.
func ApplyJSONPatch(doc, rfc []byte) ([]byte, error) {
	ops, err := jsonpatch.DecodePatch(rfc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadPatch, err)
	}
	return ops.Apply(doc)
}
