package inventory

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var validate = validator.New()

// Decl is a declaration node. It is one of BareName, *HostRecord or
// *GroupRecord; the variant is fixed when the document is decoded.
type Decl interface {
	// DeclName returns the host or group name the node refers to.
	DeclName() string
	isDecl()
}

// BareName references a host or group by name only. Whether it names a host
// or a group depends on where it appears.
type BareName string

// DeclName implements Decl.
func (n BareName) DeclName() string { return string(n) }
func (BareName) isDecl()            {}

// HostRecord declares a host with optional variables and memberships.
type HostRecord struct {
	Name       string     `yaml:"host" validate:"required"`
	Vars       VarList    `yaml:"vars"`
	ImportVars []string   `yaml:"import_vars" validate:"dive,required"`
	Groups     GroupDecls `yaml:"groups"`
}

// DeclName implements Decl.
func (r *HostRecord) DeclName() string { return r.Name }
func (*HostRecord) isDecl()            {}

// GroupRecord declares a group with optional variables, members and relations.
type GroupRecord struct {
	Name       string     `yaml:"group" validate:"required"`
	Label      string     `yaml:"label"`
	Vars       VarList    `yaml:"vars"`
	ImportVars []string   `yaml:"import_vars" validate:"dive,required"`
	Hosts      HostDecls  `yaml:"hosts"`
	Children   GroupDecls `yaml:"children"`
	Parents    GroupDecls `yaml:"parents"`
}

// DeclName implements Decl.
func (r *GroupRecord) DeclName() string { return r.Name }
func (*GroupRecord) isDecl()            {}

// HostDecls is a list of host references: bare names or host records.
type HostDecls []Decl

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *HostDecls) UnmarshalYAML(value *yaml.Node) error {
	decls, err := decodeRefs(value, "host", decodeHostRecord)
	if err != nil {
		return err
	}
	*d = decls
	return nil
}

// GroupDecls is a list of group references: bare names or group records.
type GroupDecls []Decl

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *GroupDecls) UnmarshalYAML(value *yaml.Node) error {
	decls, err := decodeRefs(value, "group", decodeGroupRecord)
	if err != nil {
		return err
	}
	*d = decls
	return nil
}

// Document is the top-level declaration sequence. Only host and group
// records are valid at this level.
type Document []Decl

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Document) UnmarshalYAML(value *yaml.Node) error {
	value = resolveAlias(value)
	if isNull(value) {
		*d = nil
		return nil
	}
	if value.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: inventory document must be a list of host and group declarations", value.Line)
	}

	doc := make(Document, 0, len(value.Content))
	for _, item := range value.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: top-level entries must be host or group records", item.Line)
		}

		isGroup, isHost := hasKey(item, "group"), hasKey(item, "host")
		if !isGroup && !isHost {
			return fmt.Errorf("line %d: top-level entry has neither a host nor a group key", item.Line)
		}
		// A record carrying both keys declares the group first, then the host.
		if isGroup {
			rec, err := decodeGroupRecord(item)
			if err != nil {
				return err
			}
			doc = append(doc, rec)
		}
		if isHost {
			rec, err := decodeHostRecord(item)
			if err != nil {
				return err
			}
			doc = append(doc, rec)
		}
	}

	*d = doc
	return nil
}

func decodeRefs(value *yaml.Node, key string, record func(*yaml.Node) (Decl, error)) ([]Decl, error) {
	value = resolveAlias(value)
	if isNull(value) {
		return nil, nil
	}
	if value.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of %s references", value.Line, key)
	}

	decls := make([]Decl, 0, len(value.Content))
	for _, item := range value.Content {
		aliased := item.Kind == yaml.AliasNode
		item = resolveAlias(item)
		switch {
		case item.Kind == yaml.ScalarNode && !isNull(item):
			decls = append(decls, BareName(item.Value))
		case aliased && item.Kind == yaml.MappingNode && hasKey(item, key):
			// An anchor always precedes its alias, so the aliased record has
			// been declared already (or encloses this list). Refer to it by name.
			name := mappingValue(item, key)
			if name == "" {
				return nil, fmt.Errorf("line %d: aliased %s record has no name", item.Line, key)
			}
			decls = append(decls, BareName(name))
		case item.Kind == yaml.MappingNode && hasKey(item, key):
			decl, err := record(item)
			if err != nil {
				return nil, err
			}
			decls = append(decls, decl)
		default:
			return nil, fmt.Errorf("line %d: expected a %s name or a record with a %q key", item.Line, key, key)
		}
	}
	return decls, nil
}

func decodeHostRecord(node *yaml.Node) (Decl, error) {
	var rec HostRecord
	if err := node.Decode(&rec); err != nil {
		return nil, err
	}
	if err := validate.Struct(&rec); err != nil {
		return nil, fmt.Errorf("line %d: invalid host record: %w", node.Line, err)
	}
	return &rec, nil
}

func decodeGroupRecord(node *yaml.Node) (Decl, error) {
	var rec GroupRecord
	if err := node.Decode(&rec); err != nil {
		return nil, err
	}
	if err := validate.Struct(&rec); err != nil {
		return nil, fmt.Errorf("line %d: invalid group record: %w", node.Line, err)
	}
	return &rec, nil
}

func hasKey(node *yaml.Node, key string) bool {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			return true
		}
	}
	return false
}

func mappingValue(node *yaml.Node, key string) string {
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Kind == yaml.ScalarNode && node.Content[i].Value == key {
			value := resolveAlias(node.Content[i+1])
			if value.Kind == yaml.ScalarNode && !isNull(value) {
				return value.Value
			}
			return ""
		}
	}
	return ""
}

func isNull(node *yaml.Node) bool {
	return node.Kind == 0 || (node.Kind == yaml.ScalarNode && node.Tag == "!!null")
}
