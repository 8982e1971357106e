package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"

	"github.com/agrosim/biogas/config"
)

// OutputManager handles structured run output with CSV logging.
type OutputManager struct {
	dir       string
	modelFile *os.File
	agentFile *os.File

	// Track if headers have been written
	modelHeaderWritten bool
	agentHeaderWritten bool
}

// NewOutputManager creates a new output manager and initializes the output
// directory. Returns nil if dir is empty (output disabled).
func NewOutputManager(dir string) (*OutputManager, error) {
	if dir == "" {
		return nil, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	om := &OutputManager{dir: dir}

	f, err := os.Create(filepath.Join(dir, "model.csv"))
	if err != nil {
		return nil, fmt.Errorf("creating model.csv: %w", err)
	}
	om.modelFile = f

	f, err = os.Create(filepath.Join(dir, "agents.csv"))
	if err != nil {
		om.modelFile.Close()
		return nil, fmt.Errorf("creating agents.csv: %w", err)
	}
	om.agentFile = f

	return om, nil
}

// WriteConfig saves the run configuration as YAML.
func (om *OutputManager) WriteConfig(cfg *config.Config) error {
	if om == nil {
		return nil
	}
	return cfg.WriteYAML(filepath.Join(om.dir, "config.yaml"))
}

// WriteModel appends one model-level record to model.csv.
func (om *OutputManager) WriteModel(rec ModelRecord) error {
	if om == nil {
		return nil
	}

	records := []ModelRecord{rec}

	if !om.modelHeaderWritten {
		// First write includes headers
		if err := gocsv.Marshal(records, om.modelFile); err != nil {
			return fmt.Errorf("writing model record: %w", err)
		}
		om.modelHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.modelFile); err != nil {
			return fmt.Errorf("writing model record: %w", err)
		}
	}

	return nil
}

// WriteAgents appends agent-level records to agents.csv.
func (om *OutputManager) WriteAgents(records []AgentRecord) error {
	if om == nil || len(records) == 0 {
		return nil
	}

	if !om.agentHeaderWritten {
		if err := gocsv.Marshal(records, om.agentFile); err != nil {
			return fmt.Errorf("writing agent records: %w", err)
		}
		om.agentHeaderWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, om.agentFile); err != nil {
			return fmt.Errorf("writing agent records: %w", err)
		}
	}

	return nil
}

// Dir returns the output directory path.
func (om *OutputManager) Dir() string {
	if om == nil {
		return ""
	}
	return om.dir
}

// Close flushes and closes all output files.
func (om *OutputManager) Close() error {
	if om == nil {
		return nil
	}

	var firstErr error

	if om.modelFile != nil {
		if err := om.modelFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	if om.agentFile != nil {
		if err := om.agentFile.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
