package inventory

// Store is the identity map for hosts and groups of one inventory run.
// Asking for a name twice returns the same entity.
type Store struct {
	hosts      map[string]*Host
	hostOrder  []*Host
	groups     map[string]*Group
	groupOrder []*Group

	all  *Group
	meta *Group
}

// NewStore creates a store holding the two reserved groups "all" and "_all".
func NewStore() *Store {
	s := &Store{
		hosts:  make(map[string]*Host),
		groups: make(map[string]*Group),
	}
	s.all = s.GetOrCreateGroup(AllGroup)
	s.meta = s.GetOrCreateGroup(MetaGroup)
	return s
}

// GetOrCreateHost returns the host with the given name, creating it on first
// reference. A new host joins both "all" and "_all".
func (s *Store) GetOrCreateHost(name string) *Host {
	if h, ok := s.hosts[name]; ok {
		return h
	}

	h := newHost(name)
	s.hosts[name] = h
	s.hostOrder = append(s.hostOrder, h)
	s.all.AddHost(h)
	s.meta.AddHost(h)
	return h
}

// GetOrCreateGroup returns the group with the given name, creating it on
// first reference.
func (s *Store) GetOrCreateGroup(name string) *Group {
	if g, ok := s.groups[name]; ok {
		return g
	}

	g := newGroup(name)
	s.groups[name] = g
	s.groupOrder = append(s.groupOrder, g)
	return g
}

// FindHost looks a host up by name without creating it.
func (s *Store) FindHost(name string) (*Host, bool) {
	h, ok := s.hosts[name]
	return h, ok
}

// FindGroup looks a group up by name without creating it.
func (s *Store) FindGroup(name string) (*Group, bool) {
	g, ok := s.groups[name]
	return g, ok
}

// Hosts returns every host in creation order.
func (s *Store) Hosts() []*Host {
	return s.hostOrder
}

// Groups returns every group in creation order, "all" and "_all" first.
func (s *Store) Groups() []*Group {
	return s.groupOrder
}

// All returns the implicit "all" group.
func (s *Store) All() *Group {
	return s.all
}

// Meta returns the "_all" meta-root.
func (s *Store) Meta() *Group {
	return s.meta
}

// Link records parent -> child in both directions, once. A child named "all"
// is redirected to "_all" so that "all" never acquires a parent.
func (s *Store) Link(parent, child *Group) {
	if child == s.all {
		child = s.meta
	}
	parent.addChild(child)
	child.addParent(parent)
}
