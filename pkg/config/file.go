package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/subdomains/pkg/routing"
)

// File is the YAML mapping file.
//
//	parent_domain: example.com
//	default_table: marketing
//	mapping:
//	  "@": marketing
//	  api: api
//	tables:
//	  api:
//	    namespaces: [api]
//	    routes:
//	      "api:user": /users/{id}/
type File struct {
	ParentDomain  string               `yaml:"parent_domain"`
	StripWWW      *bool                `yaml:"strip_www"`
	DefaultTable  string               `yaml:"default_table"`
	DefaultScheme string               `yaml:"default_scheme"`
	Mapping       map[string]string    `yaml:"mapping"`
	Tables        map[string]TableSpec `yaml:"tables"`
}

// TableSpec declares the routes of one table.
type TableSpec struct {
	Namespaces []string          `yaml:"namespaces"`
	Routes     map[string]string `yaml:"routes"`
}

// LoadFile reads and decodes the mapping file at path.
func LoadFile(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, errors.Join(ErrReadingFile, err)
	}
	return ParseFile(bytes.NewReader(data))
}

// ParseFile decodes a mapping file. Unknown keys are rejected.
func ParseFile(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, errors.Join(ErrReadingFile, err)
	}
	for key, table := range f.Mapping {
		if table == "" {
			return File{}, fmt.Errorf("%w: empty table for mapping key %q", ErrInvalidConfig, key)
		}
	}
	return f, nil
}

// Apply returns c with every field the file sets taken from the file.
func (c Config) Apply(f File) Config {
	if f.ParentDomain != "" {
		c.ParentDomain = f.ParentDomain
	}
	if f.StripWWW != nil {
		c.StripWWW = *f.StripWWW
	}
	if f.DefaultTable != "" {
		c.DefaultTable = f.DefaultTable
	}
	if f.DefaultScheme != "" {
		c.DefaultScheme = f.DefaultScheme
	}
	if len(f.Mapping) > 0 {
		c.FileMapping = make(routing.Mapping, len(f.Mapping))
		for k, v := range f.Mapping {
			c.FileMapping[k] = routing.TableID(v)
		}
	}
	if len(f.Tables) > 0 {
		c.Tables = f.Tables
	}
	return c
}
