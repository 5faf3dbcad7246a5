package tier

import (
	"context"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// yamlTable is the on-disk shape of a permission table:
//
//	version: "2025-09"
//	tiers:
//	  FREE:
//	    - jobs:view
//	    - jobs:apply:3
//	  ENTERPRISE:
//	    - "*"
type yamlTable struct {
	Version string            `yaml:"version"`
	Tiers   map[Tier][]string `yaml:"tiers"`
}

// yamlSource loads a permission table from a YAML file on every Load call,
// so a restart (or an explicit reload by the host) picks up new config.
type yamlSource struct {
	path string
}

// NewYAMLSource returns a Source reading the table from the given file.
func NewYAMLSource(path string) Source {
	return &yamlSource{path: path}
}

func (s *yamlSource) Load(ctx context.Context) (Table, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return Table{}, errors.Join(ErrFailedToLoadTable, err)
	}
	defer f.Close()
	return decodeYAMLTable(f)
}

func decodeYAMLTable(r io.Reader) (Table, error) {
	var doc yamlTable
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return Table{}, errors.Join(ErrFailedToLoadTable, err)
	}
	tbl, err := NewTable(doc.Version, doc.Tiers)
	if err != nil {
		return Table{}, errors.Join(ErrFailedToLoadTable, err)
	}
	return tbl, nil
}
