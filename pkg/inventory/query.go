package inventory

// GroupListing is the listing entry for one group.
type GroupListing struct {
	Hosts    []string `json:"hosts"`
	Vars     Vars     `json:"vars"`
	Children []string `json:"children"`
	Parents  []string `json:"parents"`
}

// Listing is the full inventory listing: every group except "all" plus the
// resolved variables of every host.
type Listing struct {
	Groups   map[string]GroupListing
	HostVars map[string]Vars
}

// Map returns the listing in the dynamic-inventory shape: one key per group
// and a "_meta.hostvars" mapping. Callers may add top-level keys before
// encoding.
func (l *Listing) Map() map[string]any {
	out := make(map[string]any, len(l.Groups)+1)
	for name, g := range l.Groups {
		out[name] = g
	}
	out["_meta"] = map[string]any{"hostvars": l.HostVars}
	return out
}

// List builds the inventory listing. It does not mutate the graph.
func List(s *Store) *Listing {
	listing := &Listing{
		Groups:   make(map[string]GroupListing, len(s.Groups())),
		HostVars: make(map[string]Vars, len(s.Hosts())),
	}

	for _, g := range s.Groups() {
		if g == s.All() {
			continue
		}
		listing.Groups[g.Name] = GroupListing{
			Hosts:    hostNames(g.Hosts()),
			Vars:     g.Vars,
			Children: groupNames(g.Children()),
			Parents:  groupNames(g.Parents()),
		}
	}

	r := newResolver()
	for _, h := range s.All().Hosts() {
		listing.HostVars[h.Name] = r.hostVars(h)
	}

	return listing
}

// HostVars resolves the variables of the named host.
func HostVars(s *Store, name string) (Vars, error) {
	h, ok := s.FindHost(name)
	if !ok {
		return nil, NewHostNotFoundError(name)
	}
	return ResolveHostVars(h), nil
}

// ResolveHostVars merges the variables of every group the host belongs to,
// in membership order, and then the host's own variables on top.
func ResolveHostVars(h *Host) Vars {
	return newResolver().hostVars(h)
}

// resolver caches group results that do not depend on the traversal path.
// A group whose parent chain contains a cycle is resolved again on every
// path, which is exponential in the number of mutually cross-parented groups.
type resolver struct {
	memo map[*Group]Vars
}

func newResolver() *resolver {
	return &resolver{memo: make(map[*Group]Vars)}
}

func (r *resolver) hostVars(h *Host) Vars {
	result := make(Vars)
	for _, g := range h.Groups() {
		vars, _ := r.groupVars(g, make(map[*Group]bool))
		result.Merge(vars)
	}
	result.Merge(h.Vars)
	return result
}

// groupVars applies parent chains first and the group's own variables last.
// Groups already on the current path are skipped so cycles terminate. The
// second result reports whether nothing was skipped; only then is the result
// the same on every path and safe to cache.
func (r *resolver) groupVars(g *Group, path map[*Group]bool) (Vars, bool) {
	if vars, ok := r.memo[g]; ok {
		return vars, true
	}

	path[g] = true
	defer delete(path, g)

	result := make(Vars)
	complete := true
	for _, parent := range g.Parents() {
		if path[parent] {
			complete = false
			continue
		}
		vars, ok := r.groupVars(parent, path)
		complete = complete && ok
		result.Merge(vars)
	}
	result.Merge(g.Vars)

	if complete {
		r.memo[g] = result
	}
	return result, complete
}
