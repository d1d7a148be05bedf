package roster

import (
	"encoding/json"
	"fmt"
	"os"
)

// Load reads the symbol roster, a JSON array of ticker strings, from path.
// The roster is read once at startup and never reloaded. An empty array is
// valid; the caller decides how to handle a load error (the server logs it
// and degrades to an empty roster).
func Load(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read roster: %w", err)
	}

	var symbols []string
	if err := json.Unmarshal(data, &symbols); err != nil {
		return nil, fmt.Errorf("parse roster: %w", err)
	}
	return symbols, nil
}
