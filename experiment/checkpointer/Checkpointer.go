// Package checkpointer implements checkpointing of what agents learn
// during an experiment
package checkpointer

import (
	"encoding"
	"fmt"
	"os"
)

// Checkpointer checkpoints/saves serializable objects based on the
// number of finished episodes
type Checkpointer interface {
	Checkpoint(episodes int) error
}

// Load reads a checkpoint saved in filename into object
func Load(filename string, object encoding.BinaryUnmarshaler) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("load: %v", err)
	}

	if err := object.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("load: %v", err)
	}
	return nil
}

// save writes the binary encoding of object to filename
func save(filename string, object encoding.BinaryMarshaler) error {
	data, err := object.MarshalBinary()
	if err != nil {
		return fmt.Errorf("save: %v", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("save: %v", err)
	}
	return nil
}
