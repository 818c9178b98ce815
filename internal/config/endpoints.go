package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// EndpointDef is one endpoint entry in a YAML import/export file. The file
// format exists so endpoint lists can be shared without copying databases.
type EndpointDef struct {
	Name   string `yaml:"name"`
	URL    string `yaml:"url"`
	Model  string `yaml:"model"`
	Active bool   `yaml:"active"`
}

// EndpointsFile is the top-level YAML document.
type EndpointsFile struct {
	Endpoints []EndpointDef `yaml:"endpoints"`
}

// LoadEndpointsFile reads and validates a YAML endpoint list.
func LoadEndpointsFile(path string) ([]EndpointDef, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read endpoints file: %w", err)
	}

	var file EndpointsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse endpoints file: %w", err)
	}

	for i, e := range file.Endpoints {
		if e.Name == "" {
			return nil, fmt.Errorf("endpoint %d: missing name", i)
		}
		if e.URL == "" {
			return nil, fmt.Errorf("endpoint %q: missing url", e.Name)
		}
		if e.Model == "" {
			return nil, fmt.Errorf("endpoint %q: missing model", e.Name)
		}
	}

	return file.Endpoints, nil
}

// SaveEndpointsFile writes an endpoint list as YAML.
func SaveEndpointsFile(path string, endpoints []EndpointDef) error {
	data, err := yaml.Marshal(EndpointsFile{Endpoints: endpoints})
	if err != nil {
		return fmt.Errorf("marshal endpoints: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}
