package export

import (
	"encoding/json"
	"io"
)

// WriteRawJSON dumps the unflattened record list as JSON, preserving every
// field the API returned rather than the projected column sets.
func WriteRawJSON(w io.Writer, records any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(records)
}
