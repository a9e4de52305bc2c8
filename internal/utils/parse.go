package utils

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonrepair"
)

// DecodeJSON unmarshals data into a new T. Local inference servers are not
// always strict about JSON (trailing commas, single quotes, bare NaN), so
// when the strict decode fails the payload is repaired with jsonrepair and
// decoded once more.
//
// Example usage:
//
//	status, err := DecodeJSON[jobStatus]([]byte(`{'id': 'a1', 'status': 'pending',}`))
func DecodeJSON[T any](data []byte) (T, error) {
	var result T
	err := json.Unmarshal(data, &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(string(data))
	if repairErr != nil {
		return result, fmt.Errorf("failed to unmarshal content as %T and failed to repair JSON: unmarshal error: %w, repair error: %v", result, err, repairErr)
	}

	var retry T
	if err = json.Unmarshal([]byte(repaired), &retry); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w (repaired: %s)", result, err, TruncateStringDefault(repaired))
	}
	return retry, nil
}
