package storage

import (
	"encoding/json"
	"fmt"

	"github.com/valter-silva-au/datawork/pkg/models"
	"gopkg.in/yaml.v3"
)

// Codec names accepted by NewCodec.
const (
	CodecYAML = "yaml"
	CodecJSON = "json"
)

// Codec converts the whole task collection to and from a single stored value.
type Codec interface {
	Encode(tasks []models.Task) (string, error)
	Decode(value string) ([]models.Task, error)
}

// YAMLCodec serializes the task collection as a YAML sequence.
type YAMLCodec struct{}

func (YAMLCodec) Encode(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := yaml.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshalling tasks: %w", err)
	}
	return string(data), nil
}

func (YAMLCodec) Decode(value string) ([]models.Task, error) {
	var tasks []models.Task
	if err := yaml.Unmarshal([]byte(value), &tasks); err != nil {
		return nil, fmt.Errorf("unmarshalling tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// JSONCodec serializes the task collection as a JSON array with camelCase
// field names.
type JSONCodec struct{}

func (JSONCodec) Encode(tasks []models.Task) (string, error) {
	if tasks == nil {
		tasks = []models.Task{}
	}
	data, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("marshalling tasks: %w", err)
	}
	return string(data), nil
}

func (JSONCodec) Decode(value string) ([]models.Task, error) {
	var tasks []models.Task
	if err := json.Unmarshal([]byte(value), &tasks); err != nil {
		return nil, fmt.Errorf("unmarshalling tasks: %w", err)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	return tasks, nil
}

// NewCodec returns the codec registered under name. An empty name selects YAML.
func NewCodec(name string) (Codec, error) {
	switch name {
	case CodecYAML, "":
		return YAMLCodec{}, nil
	case CodecJSON:
		return JSONCodec{}, nil
	default:
		return nil, fmt.Errorf("unknown codec %q", name)
	}
}
