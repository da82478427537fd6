package inventory

// Reserved group names.
const (
	// AllGroup is the implicit group holding every host.
	AllGroup = "all"

	// MetaGroup is the meta-root that stands in for "all" whenever "all" is
	// linked as a child, so "all" itself never has parents.
	MetaGroup = "_all"
)

// Host is a named inventory target.
type Host struct {
	// Name is the unique host name.
	Name string

	// Vars are the host's own variables.
	Vars Vars

	groups   []*Group
	groupSet map[*Group]struct{}
}

func newHost(name string) *Host {
	return &Host{
		Name:     name,
		Vars:     make(Vars),
		groupSet: make(map[*Group]struct{}),
	}
}

// Groups returns the groups the host belongs to in membership order.
func (h *Host) Groups() []*Group {
	return h.groups
}

func (h *Host) addGroup(g *Group) bool {
	if _, ok := h.groupSet[g]; ok {
		return false
	}
	h.groupSet[g] = struct{}{}
	h.groups = append(h.groups, g)
	return true
}

// Group is a named collection of hosts and child groups.
type Group struct {
	// Name is the unique group name.
	Name string

	// Vars are the group's own variables.
	Vars Vars

	hosts     []*Host
	hostSet   map[*Host]struct{}
	children  []*Group
	childSet  map[*Group]struct{}
	parents   []*Group
	parentSet map[*Group]struct{}
}

func newGroup(name string) *Group {
	return &Group{
		Name:      name,
		Vars:      make(Vars),
		hostSet:   make(map[*Host]struct{}),
		childSet:  make(map[*Group]struct{}),
		parentSet: make(map[*Group]struct{}),
	}
}

// Hosts returns the direct host members in insertion order.
func (g *Group) Hosts() []*Host {
	return g.hosts
}

// Children returns the direct child groups in insertion order.
func (g *Group) Children() []*Group {
	return g.children
}

// Parents returns the direct parent groups in insertion order.
func (g *Group) Parents() []*Group {
	return g.parents
}

// AddHost makes h a direct member of g. The link is symmetric and recorded
// once no matter how often it is declared.
func (g *Group) AddHost(h *Host) {
	if _, ok := g.hostSet[h]; !ok {
		g.hostSet[h] = struct{}{}
		g.hosts = append(g.hosts, h)
	}
	h.addGroup(g)
}

func (g *Group) addChild(child *Group) {
	if _, ok := g.childSet[child]; ok {
		return
	}
	g.childSet[child] = struct{}{}
	g.children = append(g.children, child)
}

func (g *Group) addParent(parent *Group) {
	if _, ok := g.parentSet[parent]; ok {
		return
	}
	g.parentSet[parent] = struct{}{}
	g.parents = append(g.parents, parent)
}

func hostNames(hosts []*Host) []string {
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, h.Name)
	}
	return out
}

func groupNames(groups []*Group) []string {
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		out = append(out, g.Name)
	}
	return out
}
