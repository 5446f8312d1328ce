package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/cosmosim/internal/dynamo"
)

// WriteJSON writes samples as a single-line JSON array of {"t": ..., "a": ...}
// objects, terminated by a newline.
func WriteJSON(w io.Writer, samples []dynamo.Sample) error {
	if samples == nil {
		samples = []dynamo.Sample{}
	}
	return json.NewEncoder(w).Encode(samples)
}
