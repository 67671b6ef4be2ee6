package results

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON writes an envelope to a JSON file
func WriteJSON(env *Envelope, filename string) error {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal results: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}

	return nil
}

// ReadJSON reads an envelope from a JSON file
func ReadJSON(filename string) (*Envelope, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal results: %w", err)
	}

	return &env, nil
}

// ToJSON converts an envelope to a JSON string
func ToJSON(env *Envelope) (string, error) {
	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FromJSON parses an envelope from a JSON string
func FromJSON(jsonStr string) (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal([]byte(jsonStr), &env); err != nil {
		return nil, err
	}
	return &env, nil
}
