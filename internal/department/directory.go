// Package department maps officer login codes to department names.
//
// The backend stores petitions per department and expects the full
// name in queries. Officers log in with a short code, so command line
// users may pass either form and Resolve normalizes it.
package department

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed departments.yaml
var embeddedDirectory []byte

// Department is one directory entry.
type Department struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// Directory looks departments up by code or name.
type Directory struct {
	byCode map[string]Department
	byName map[string]Department
}

type directoryFile struct {
	Departments []Department `yaml:"departments"`
}

// Default returns the built-in directory.
func Default() *Directory {
	d, err := Parse(embeddedDirectory)
	if err != nil {
		panic(fmt.Sprintf("department: embedded directory is invalid: %v", err))
	}
	return d
}

// Parse builds a Directory from YAML. Codes and names must be unique
// and non-empty.
func Parse(data []byte) (*Directory, error) {
	var file directoryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse department directory: %w", err)
	}

	d := &Directory{
		byCode: make(map[string]Department, len(file.Departments)),
		byName: make(map[string]Department, len(file.Departments)),
	}
	for i, dep := range file.Departments {
		dep.Code = strings.ToLower(strings.TrimSpace(dep.Code))
		dep.Name = strings.TrimSpace(dep.Name)
		if dep.Code == "" || dep.Name == "" {
			return nil, fmt.Errorf("department %d: code and name are required", i)
		}
		if _, dup := d.byCode[dep.Code]; dup {
			return nil, fmt.Errorf("department %d: duplicate code %q", i, dep.Code)
		}
		if _, dup := d.byName[strings.ToLower(dep.Name)]; dup {
			return nil, fmt.Errorf("department %d: duplicate name %q", i, dep.Name)
		}
		d.byCode[dep.Code] = dep
		d.byName[strings.ToLower(dep.Name)] = dep
	}
	return d, nil
}

// Resolve returns the full department name for a code or a name, case
// insensitively. Unknown input is returned trimmed with ok=false so
// callers can still pass it through to the backend.
func (d *Directory) Resolve(codeOrName string) (name string, ok bool) {
	key := strings.ToLower(strings.TrimSpace(codeOrName))
	if dep, found := d.byCode[key]; found {
		return dep.Name, true
	}
	if dep, found := d.byName[key]; found {
		return dep.Name, true
	}
	return strings.TrimSpace(codeOrName), false
}

// All returns every department sorted by code.
func (d *Directory) All() []Department {
	out := make([]Department, 0, len(d.byCode))
	for _, dep := range d.byCode {
		out = append(out, dep)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
