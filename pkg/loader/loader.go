// Package loader reads edge lists for the CLI. Two shapes are accepted, in
// JSON or YAML:
//
//   - a bare array of edge records: [{"source": "a", "target": "b", "weight": 2}, ...]
//   - a visualisation document: {"nodes": [{"id": "a"}, ...], "links": [...]}
//
// The second shape is what force-directed front-ends feed the engine; its
// node list is preserved so isolated nodes survive the analysis.
package loader

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/guinetik/netstats/pkg/analysis"
)

// EdgeList is a parsed input document: the edges plus any explicitly
// declared nodes (possibly isolated).
type EdgeList struct {
	Nodes []string
	Edges []analysis.Edge
}

// graphDoc is the nodes/links document shape.
type graphDoc struct {
	Nodes []nodeRecord    `json:"nodes" yaml:"nodes"`
	Links []analysis.Edge `json:"links" yaml:"links"`
}

// nodeRecord accepts both {"id": "a"} objects and bare "a" strings.
type nodeRecord struct {
	ID string
}

func (n *nodeRecord) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		n.ID = s
		return nil
	}
	var obj struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	n.ID = obj.ID
	return nil
}

func (n *nodeRecord) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		n.ID = s
		return nil
	}
	var obj struct {
		ID string `yaml:"id"`
	}
	if err := value.Decode(&obj); err != nil {
		return err
	}
	n.ID = obj.ID
	return nil
}

// Load reads path, choosing the decoder by extension (.json, .yaml, .yml;
// anything else is tried as JSON first, then YAML).
func Load(path string) (EdgeList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return EdgeList{}, fmt.Errorf("read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	case ".json":
		return ParseJSON(data)
	default:
		if el, err := ParseJSON(data); err == nil {
			return el, nil
		}
		return ParseYAML(data)
	}
}

// ParseJSON decodes either accepted shape from JSON.
func ParseJSON(data []byte) (EdgeList, error) {
	var edges []analysis.Edge
	if err := json.Unmarshal(data, &edges); err == nil {
		return EdgeList{Edges: edges}, nil
	}
	var doc graphDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return EdgeList{}, fmt.Errorf("parse edge list: %w", err)
	}
	return fromDoc(doc), nil
}

// ParseYAML decodes either accepted shape from YAML.
func ParseYAML(data []byte) (EdgeList, error) {
	var edges []analysis.Edge
	if err := yaml.Unmarshal(data, &edges); err == nil && edges != nil {
		return EdgeList{Edges: edges}, nil
	}
	var doc graphDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return EdgeList{}, fmt.Errorf("parse edge list: %w", err)
	}
	return fromDoc(doc), nil
}

func fromDoc(doc graphDoc) EdgeList {
	nodes := make([]string, 0, len(doc.Nodes))
	for _, n := range doc.Nodes {
		if n.ID != "" {
			nodes = append(nodes, n.ID)
		}
	}
	return EdgeList{Nodes: nodes, Edges: doc.Links}
}
