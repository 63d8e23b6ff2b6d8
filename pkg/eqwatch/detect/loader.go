package detect

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	// MaxFileSize is the maximum allowed size for a detector file (1MB).
	MaxFileSize = 1 * 1024 * 1024

	// MaxTriggerLength limits individual trigger patterns to keep regex
	// compilation and matching costs bounded.
	MaxTriggerLength = 512

	// MaxDetectorCount is the maximum number of detectors per file.
	MaxDetectorCount = 1000

	// SupportedVersion is the currently supported detector file version.
	SupportedVersion = 1
)

// File represents a YAML detector definition file.
//
// Example:
//
//	version: 1
//	detectors:
//	  - id: 101
//	    description: "Quillmane spawn!"
//	    triggers:
//	      - '^Quillmane has been slain'
//	      - '^Quillmane engages (?P<playername>[\w ]+)!'
type File struct {
	// Version is the file format version. Currently only version 1 exists.
	Version int `yaml:"version"`

	// Detectors is the list of detector definitions, in evaluation order.
	Detectors []Definition `yaml:"detectors"`
}

// Definition is a single detector definition. Custom detectors always use
// the default accept-all gate; gates require code.
type Definition struct {
	ID          int      `yaml:"id"`
	Description string   `yaml:"description"`
	Triggers    []string `yaml:"triggers"`
}

// Load reads and validates a detector file from the given path.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening detector file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat detector file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errors.New("detector file must be a regular file")
	}
	if info.Size() > MaxFileSize {
		return nil, fmt.Errorf("detector file too large: %d bytes (max %d)", info.Size(), MaxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, MaxFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading detector file: %w", err)
	}
	return LoadBytes(data)
}

// LoadBytes parses and validates a detector file from a byte slice.
func LoadBytes(data []byte) (*File, error) {
	if len(data) == 0 {
		return nil, errors.New("detector file is empty")
	}
	if len(data) > MaxFileSize {
		return nil, fmt.Errorf("detector file too large: %d bytes (max %d)", len(data), MaxFileSize)
	}

	var df File
	if err := yaml.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("parsing detector file: %w", err)
	}
	if err := df.Validate(); err != nil {
		return nil, err
	}
	return &df, nil
}

// Validate performs schema-level validation. Trigger regexes are not
// compiled here; compilation and its errors happen in Build.
func (f *File) Validate() error {
	if f.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", f.Version, SupportedVersion),
		}
	}
	if len(f.Detectors) == 0 {
		return &ValidationError{
			Field:   "detectors",
			Message: "at least one detector is required",
		}
	}
	if len(f.Detectors) > MaxDetectorCount {
		return &ValidationError{
			Field:   "detectors",
			Message: fmt.Sprintf("too many detectors (%d), maximum allowed is %d", len(f.Detectors), MaxDetectorCount),
		}
	}

	seenIDs := make(map[int]int, len(f.Detectors))
	for i, def := range f.Detectors {
		if def.ID == 0 {
			return &DefinitionError{Index: i, Field: "id", Message: "id is required and must be non-zero"}
		}
		if def.Description == "" {
			return &DefinitionError{Index: i, ID: def.ID, Field: "description", Message: "description is required"}
		}
		if len(def.Triggers) == 0 {
			return &DefinitionError{Index: i, ID: def.ID, Field: "triggers", Message: "at least one trigger is required"}
		}
		if prev, exists := seenIDs[def.ID]; exists {
			return &DefinitionError{
				Index: i, ID: def.ID, Field: "id",
				Message: fmt.Sprintf("duplicate id (previously defined at detectors[%d])", prev),
			}
		}
		seenIDs[def.ID] = i
		for _, trig := range def.Triggers {
			if len(trig) > MaxTriggerLength {
				return &DefinitionError{
					Index: i, ID: def.ID, Field: "triggers",
					Message: fmt.Sprintf("trigger too long: %d bytes (max %d)", len(trig), MaxTriggerLength),
				}
			}
		}
	}
	return nil
}

// Build compiles every definition into a Detector.
func (f *File) Build() ([]*Detector, error) {
	detectors := make([]*Detector, 0, len(f.Detectors))
	for i, def := range f.Detectors {
		d, err := New(def.ID, def.Description, def.Triggers)
		if err != nil {
			return nil, &DefinitionError{
				Index: i, ID: def.ID, Field: "triggers",
				Message: "invalid regular expression",
				Cause:   err,
			}
		}
		detectors = append(detectors, d)
	}
	return detectors, nil
}

// LoadDetectors loads a detector file and compiles its definitions in one
// step.
func LoadDetectors(path string) ([]*Detector, error) {
	df, err := Load(path)
	if err != nil {
		return nil, err
	}
	return df.Build()
}
