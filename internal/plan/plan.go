// Package plan loads declarative resource documents and applies them through
// the reconciliation engine.
package plan

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nasadm/truenasctl/internal/core/domain"
	"github.com/nasadm/truenasctl/internal/core/ports"
	"github.com/nasadm/truenasctl/internal/errors"
)

// Entry is one resource in a plan document.
type Entry struct {
	// Name labels the entry in reports; optional.
	Name string `yaml:"name"`

	Kind  string `yaml:"kind"`
	State string `yaml:"state"`

	IgnoreOnUpdate []string       `yaml:"ignore_on_update"`
	Fields         map[string]any `yaml:"fields"`
}

// Document is a plan file: an ordered list of resource entries.
type Document struct {
	Resources []Entry `yaml:"resources"`
}

func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeConfigReadError,
			fmt.Sprintf("opening plan file %s", path))
	}
	defer f.Close()
	return Parse(f)
}

func Parse(r io.Reader) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if err == io.EOF {
			return nil, errors.New(errors.CodePlanParseError, "plan document is empty")
		}
		return nil, errors.Wrap(err, errors.CodePlanParseError, "parsing plan document")
	}
	if len(doc.Resources) == 0 {
		return nil, errors.New(errors.CodePlanParseError, "plan document has no resources")
	}
	for i := range doc.Resources {
		if err := doc.Resources[i].validate(i); err != nil {
			return nil, err
		}
	}
	return &doc, nil
}

func (e *Entry) validate(index int) error {
	if e.Kind == "" {
		return errors.Newf(errors.CodePlanParseError,
			"resource %d: kind is required", index)
	}
	if e.State == "" {
		e.State = string(domain.ModePresent)
	}
	if !domain.Mode(e.State).Valid() {
		return errors.Newf(errors.CodePlanParseError,
			"resource %d (%s): invalid state %q", index, e.Kind, e.State)
	}
	return nil
}

// Request converts the entry into a reconciliation request.
func (e *Entry) Request(dryRun bool) ports.Request {
	desired := make(domain.Record, len(e.Fields))
	for k, v := range e.Fields {
		desired[k] = v
	}
	return ports.Request{
		Kind:           domain.ResourceKind(e.Kind),
		Mode:           domain.Mode(e.State),
		Desired:        desired,
		IgnoreOnUpdate: e.IgnoreOnUpdate,
		DryRun:         dryRun,
	}
}

// Label names the entry in reports and logs.
func (e *Entry) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.Kind
}
