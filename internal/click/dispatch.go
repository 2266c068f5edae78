package click

import (
	"github.com/me/goblocks/pkg/model"
)

// Dispatch assigns rec's click payload to the first block whose (name,
// instance) pair equals the record's exactly, overwriting any unconsumed
// pending click on that block. It returns the matched index, or -1 when no
// block matched.
//
// A record with both name and instance empty matches nothing; this keeps a
// fully blank record from landing on the first block with an empty name.
func Dispatch(rec Record, states []model.BlockState) int {
	if rec.Name == "" && rec.Instance == "" {
		return -1
	}

	for i := range states {
		st := &states[i]
		if st.Name == rec.Name && st.Instance == rec.Instance {
			st.Click = rec.Click
			return i
		}
	}

	return -1
}
