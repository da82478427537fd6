package inventory

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Builder turns declaration nodes into graph mutations on a Store.
type Builder struct {
	store  *Store
	vars   VarsLoader
	logger zerolog.Logger
}

// NewBuilder creates a builder writing into store. vars may be nil when the
// document has no import_vars entries.
func NewBuilder(store *Store, vars VarsLoader, logger zerolog.Logger) *Builder {
	return &Builder{
		store:  store,
		vars:   vars,
		logger: logger.With().Str("component", "builder").Logger(),
	}
}

// Build walks the document once, dispatching group records to ParseGroup and
// host records to ParseHost.
func (b *Builder) Build(doc Document) error {
	for _, decl := range doc {
		switch d := decl.(type) {
		case *GroupRecord:
			if _, err := b.ParseGroup(d); err != nil {
				return err
			}
		case *HostRecord:
			if _, err := b.ParseHost(d); err != nil {
				return err
			}
		default:
			return NewMalformedError(fmt.Sprintf("top-level entry %q must be a host or group record", decl.DeclName()), nil)
		}
	}

	b.logger.Debug().
		Int("groups", len(b.store.Groups())).
		Int("hosts", len(b.store.Hosts())).
		Msg("Inventory graph built")

	return nil
}

// ParseGroup resolves a group reference, applying the record body when decl
// is a *GroupRecord. Re-declaring a group merges into the existing entity.
func (b *Builder) ParseGroup(decl Decl) (*Group, error) {
	group := b.group(decl.DeclName())

	rec, ok := decl.(*GroupRecord)
	if !ok {
		return group, nil
	}
	if rec.Label != "" {
		group.Vars.Set(rec.Label, rec.Name)
	}

	if err := b.importVars(group.Vars, rec.ImportVars); err != nil {
		return nil, fmt.Errorf("failed to import vars for group %s: %w", rec.Name, err)
	}
	group.Vars.Apply(rec.Vars)

	for _, hostDecl := range rec.Hosts {
		host, err := b.ParseHost(hostDecl)
		if err != nil {
			return nil, err
		}
		group.AddHost(host)
	}

	for _, childDecl := range rec.Children {
		child, err := b.ParseGroup(childDecl)
		if err != nil {
			return nil, err
		}
		b.link(group, child)
	}

	for _, parentDecl := range rec.Parents {
		parent, err := b.ParseGroup(parentDecl)
		if err != nil {
			return nil, err
		}
		b.link(parent, group)
	}

	return group, nil
}

// ParseHost resolves a host reference, applying the record body when decl is
// a *HostRecord.
func (b *Builder) ParseHost(decl Decl) (*Host, error) {
	host := b.host(decl.DeclName())

	rec, ok := decl.(*HostRecord)
	if !ok {
		return host, nil
	}

	if err := b.importVars(host.Vars, rec.ImportVars); err != nil {
		return nil, fmt.Errorf("failed to import vars for host %s: %w", rec.Name, err)
	}
	host.Vars.Apply(rec.Vars)

	for _, groupDecl := range rec.Groups {
		group, err := b.ParseGroup(groupDecl)
		if err != nil {
			return nil, err
		}
		group.AddHost(host)
	}

	return host, nil
}

func (b *Builder) importVars(target Vars, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	if b.vars == nil {
		return NewInputMissingError(paths[0], fmt.Errorf("no variable loader configured"))
	}

	for _, path := range paths {
		vars, err := b.vars.LoadVars(path)
		if err != nil {
			return err
		}
		target.Apply(vars)
	}
	return nil
}

func (b *Builder) link(parent, child *Group) {
	if child == b.store.All() {
		b.logger.Debug().
			Str("parent", parent.Name).
			Msg("Child link to all redirected to _all")
	}
	b.store.Link(parent, child)
}

func (b *Builder) group(name string) *Group {
	if g, ok := b.store.FindGroup(name); ok {
		return g
	}
	b.logger.Debug().Str("group", name).Msg("Group created")
	return b.store.GetOrCreateGroup(name)
}

func (b *Builder) host(name string) *Host {
	if h, ok := b.store.FindHost(name); ok {
		return h
	}
	b.logger.Debug().Str("host", name).Msg("Host created")
	return b.store.GetOrCreateHost(name)
}
