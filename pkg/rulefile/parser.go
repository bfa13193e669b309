package rulefile

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/formkit/pkg/form"
)

// Document is the YAML shape of a rule file.
type Document struct {
	Rules []Entry `yaml:"rules"`
}

// Entry describes one rule. Mode is "joint" or "isolated" (the default).
// Errors applies to joint rules only and defaults to Inputs.
type Entry struct {
	Mode     string   `yaml:"mode"`
	Inputs   []string `yaml:"inputs"`
	Errors   []string `yaml:"errors"`
	Message  string   `yaml:"message"`
	Check    string   `yaml:"check"`
	Optional bool     `yaml:"optional"`
	Params   Params   `yaml:"params"`
}

// Parser compiles rule documents against a check registry.
type Parser struct {
	registry *Registry
}

// NewParser returns a parser using registry, or the built-in registry when nil.
func NewParser(registry *Registry) *Parser {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Parser{registry: registry}
}

// Parse decodes a YAML rule document into definitions in document order.
// Key, message and predicate shape are validated later by form.Register.
func (p *Parser) Parse(content []byte) ([]form.Definition, error) {
	var doc Document
	if err := yaml.Unmarshal(content, &doc); err != nil {
		return nil, errors.Join(ErrFailedToParseYAML, err)
	}
	if len(doc.Rules) == 0 {
		return nil, ErrNoRules
	}

	defs := make([]form.Definition, 0, len(doc.Rules))
	for i, e := range doc.Rules {
		def, err := p.compile(e)
		if err != nil {
			return nil, &RuleError{Index: i, Check: e.Check, Err: err}
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// Load reads and parses the rule file at path.
func (p *Parser) Load(path string) ([]form.Definition, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return p.Parse(content)
}

// LoadFS reads and parses the rule file name from fsys, e.g. an embed.FS.
func (p *Parser) LoadFS(fsys fs.FS, name string) ([]form.Definition, error) {
	content, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Join(ErrFailedToReadFile, err)
	}
	return p.Parse(content)
}

func (p *Parser) compile(e Entry) (form.Definition, error) {
	switch strings.ToLower(strings.TrimSpace(e.Mode)) {
	case "", "isolated":
		pred, err := p.registry.isolated(e.Check, e.Params, e.Optional)
		if err != nil {
			return form.Definition{}, err
		}
		return form.Isolated(e.Inputs, e.Message, pred), nil
	case "joint":
		pred, err := p.registry.joint(e.Check, e.Inputs, e.Params)
		if err != nil {
			return form.Definition{}, err
		}
		var opts []form.DefinitionOption
		if len(e.Errors) > 0 {
			opts = append(opts, form.WithErrorKeys(e.Errors...))
		}
		return form.Joint(e.Inputs, e.Message, pred, opts...), nil
	default:
		return form.Definition{}, ErrUnknownMode
	}
}

// Parse compiles content with the built-in registry.
func Parse(content []byte) ([]form.Definition, error) {
	return NewParser(nil).Parse(content)
}

// Load reads and compiles the rule file at path with the built-in registry.
func Load(path string) ([]form.Definition, error) {
	return NewParser(nil).Load(path)
}
