package inventory

import "testing"

func TestNewStore_ReservedGroups(t *testing.T) {
	s := NewStore()

	if s.All().Name != AllGroup {
		t.Errorf("Expected all group named %q, got %q", AllGroup, s.All().Name)
	}
	if s.Meta().Name != MetaGroup {
		t.Errorf("Expected meta group named %q, got %q", MetaGroup, s.Meta().Name)
	}
	if len(s.Groups()) != 2 {
		t.Errorf("Expected 2 groups, got %d", len(s.Groups()))
	}
	if len(s.Hosts()) != 0 {
		t.Errorf("Expected 0 hosts, got %d", len(s.Hosts()))
	}
}

func TestStore_GetOrCreateHost_Identity(t *testing.T) {
	s := NewStore()

	first := s.GetOrCreateHost("web1")
	second := s.GetOrCreateHost("web1")

	if first != second {
		t.Fatal("Expected the same host instance for repeated names")
	}
	if len(s.Hosts()) != 1 {
		t.Errorf("Expected 1 host, got %d", len(s.Hosts()))
	}
}

func TestStore_GetOrCreateHost_JoinsReservedGroups(t *testing.T) {
	s := NewStore()
	h := s.GetOrCreateHost("web1")

	groups := h.Groups()
	if len(groups) != 2 || groups[0] != s.All() || groups[1] != s.Meta() {
		t.Fatalf("Expected host groups [all _all], got %v", groupNames(groups))
	}
	if len(s.All().Hosts()) != 1 || len(s.Meta().Hosts()) != 1 {
		t.Error("Expected host to be a member of all and _all")
	}
}

func TestStore_GetOrCreateGroup_Identity(t *testing.T) {
	s := NewStore()

	first := s.GetOrCreateGroup("web")
	second := s.GetOrCreateGroup("web")

	if first != second {
		t.Fatal("Expected the same group instance for repeated names")
	}
	if s.GetOrCreateGroup(AllGroup) != s.All() {
		t.Error("Expected all to resolve to the reserved group")
	}
}

func TestStore_Find(t *testing.T) {
	s := NewStore()
	s.GetOrCreateHost("web1")
	s.GetOrCreateGroup("web")

	if _, ok := s.FindHost("web1"); !ok {
		t.Error("Expected to find host web1")
	}
	if _, ok := s.FindHost("missing"); ok {
		t.Error("Expected missing host lookup to fail")
	}
	if _, ok := s.FindGroup("web"); !ok {
		t.Error("Expected to find group web")
	}
	if _, ok := s.FindGroup("missing"); ok {
		t.Error("Expected missing group lookup to fail")
	}
	if len(s.Hosts()) != 1 || len(s.Groups()) != 3 {
		t.Error("Expected lookups not to create entities")
	}
}

func TestGroup_AddHost_Deduplicated(t *testing.T) {
	s := NewStore()
	g := s.GetOrCreateGroup("web")
	h := s.GetOrCreateHost("web1")

	g.AddHost(h)
	g.AddHost(h)
	g.AddHost(h)

	if len(g.Hosts()) != 1 {
		t.Errorf("Expected 1 member, got %d", len(g.Hosts()))
	}

	count := 0
	for _, member := range h.Groups() {
		if member == g {
			count++
		}
	}
	if count != 1 {
		t.Errorf("Expected group to appear once in host groups, got %d", count)
	}
}

func TestStore_Link_Symmetric(t *testing.T) {
	s := NewStore()
	parent := s.GetOrCreateGroup("parent")
	child := s.GetOrCreateGroup("child")

	s.Link(parent, child)
	s.Link(parent, child)

	if len(parent.Children()) != 1 || parent.Children()[0] != child {
		t.Errorf("Expected parent children [child], got %v", groupNames(parent.Children()))
	}
	if len(child.Parents()) != 1 || child.Parents()[0] != parent {
		t.Errorf("Expected child parents [parent], got %v", groupNames(child.Parents()))
	}
}

func TestStore_Link_RedirectsAll(t *testing.T) {
	s := NewStore()
	parent := s.GetOrCreateGroup("global")

	s.Link(parent, s.All())

	if len(s.All().Parents()) != 0 {
		t.Errorf("Expected all to have no parents, got %v", groupNames(s.All().Parents()))
	}
	if len(parent.Children()) != 1 || parent.Children()[0] != s.Meta() {
		t.Errorf("Expected child link to _all, got %v", groupNames(parent.Children()))
	}
	if len(s.Meta().Parents()) != 1 || s.Meta().Parents()[0] != parent {
		t.Errorf("Expected _all parents [global], got %v", groupNames(s.Meta().Parents()))
	}
}
