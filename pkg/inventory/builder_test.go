package inventory

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"
)

// mapLoader serves import_vars files from memory.
type mapLoader map[string]VarList

func (m mapLoader) LoadVars(path string) (VarList, error) {
	vars, ok := m[path]
	if !ok {
		return nil, NewInputMissingError(path, errors.New("no such file"))
	}
	return vars, nil
}

func buildFromYAML(t *testing.T, source string, loader VarsLoader) *Store {
	t.Helper()

	doc, err := ParseDocument([]byte(source))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	store := NewStore()
	builder := NewBuilder(store, loader, zerolog.Nop())
	if err := builder.Build(doc); err != nil {
		t.Fatalf("Failed to build inventory: %v", err)
	}
	return store
}

func mustGroup(t *testing.T, s *Store, name string) *Group {
	t.Helper()
	g, ok := s.FindGroup(name)
	if !ok {
		t.Fatalf("Expected group %s to exist", name)
	}
	return g
}

func mustHost(t *testing.T, s *Store, name string) *Host {
	t.Helper()
	h, ok := s.FindHost(name)
	if !ok {
		t.Fatalf("Expected host %s to exist", name)
	}
	return h
}

func TestBuilder_Build_GroupWithHosts(t *testing.T) {
	s := buildFromYAML(t, `
- group: web
  vars:
    - port: 80
  hosts:
    - web1
    - host: web2
      vars:
        weight: 5
`, nil)

	web := mustGroup(t, s, "web")
	if got := hostNames(web.Hosts()); !reflect.DeepEqual(got, []string{"web1", "web2"}) {
		t.Errorf("Expected hosts [web1 web2], got %v", got)
	}
	if web.Vars["port"] != 80 {
		t.Errorf("Expected port 80, got %v", web.Vars["port"])
	}
	if mustHost(t, s, "web2").Vars["weight"] != 5 {
		t.Error("Expected nested host record vars to be applied")
	}
	if len(s.All().Hosts()) != 2 {
		t.Errorf("Expected 2 hosts in all, got %d", len(s.All().Hosts()))
	}
}

func TestBuilder_Build_HostWithGroups(t *testing.T) {
	s := buildFromYAML(t, `
- host: db1
  vars:
    - role: primary
  groups:
    - db
    - group: backup
      vars:
        - schedule: nightly
`, nil)

	db1 := mustHost(t, s, "db1")
	if got := groupNames(db1.Groups()); !reflect.DeepEqual(got, []string{"all", "_all", "db", "backup"}) {
		t.Errorf("Expected groups [all _all db backup], got %v", got)
	}
	if mustGroup(t, s, "backup").Vars["schedule"] != "nightly" {
		t.Error("Expected nested group record vars to be applied")
	}
	if len(mustGroup(t, s, "db").Hosts()) != 1 {
		t.Error("Expected db1 to be a member of db")
	}
}

func TestBuilder_Build_Label(t *testing.T) {
	s := buildFromYAML(t, `
- group: james
  label: name
`, nil)

	if got := mustGroup(t, s, "james").Vars["name"]; got != "james" {
		t.Errorf("Expected name=james, got %v", got)
	}
}

func TestBuilder_Build_ChildrenAndParents(t *testing.T) {
	s := buildFromYAML(t, `
- group: postgresql
  children:
    - siteA
    - group: siteB
      hosts:
        - db2
  parents:
    - databases
`, nil)

	pg := mustGroup(t, s, "postgresql")
	if got := groupNames(pg.Children()); !reflect.DeepEqual(got, []string{"siteA", "siteB"}) {
		t.Errorf("Expected children [siteA siteB], got %v", got)
	}
	if got := groupNames(pg.Parents()); !reflect.DeepEqual(got, []string{"databases"}) {
		t.Errorf("Expected parents [databases], got %v", got)
	}
	if got := groupNames(mustGroup(t, s, "databases").Children()); !reflect.DeepEqual(got, []string{"postgresql"}) {
		t.Errorf("Expected databases children [postgresql], got %v", got)
	}
	if got := groupNames(mustGroup(t, s, "siteB").Parents()); !reflect.DeepEqual(got, []string{"postgresql"}) {
		t.Errorf("Expected siteB parents [postgresql], got %v", got)
	}
}

func TestBuilder_Build_ForwardReferenceMerges(t *testing.T) {
	s := buildFromYAML(t, `
- group: app
  children:
    - siteA
- group: siteA
  vars:
    - dc: east
  hosts:
    - app1
- group: postgresql
  children:
    - group: siteA
      hosts:
        - db1
`, nil)

	siteA := mustGroup(t, s, "siteA")
	if got := hostNames(siteA.Hosts()); !reflect.DeepEqual(got, []string{"app1", "db1"}) {
		t.Errorf("Expected siteA hosts [app1 db1], got %v", got)
	}
	if got := groupNames(siteA.Parents()); !reflect.DeepEqual(got, []string{"app", "postgresql"}) {
		t.Errorf("Expected siteA parents [app postgresql], got %v", got)
	}
	if siteA.Vars["dc"] != "east" {
		t.Error("Expected re-declaration to merge vars into the existing group")
	}
}

func TestBuilder_Build_AllChildRedirected(t *testing.T) {
	s := buildFromYAML(t, `
- group: global
  vars:
    - product: myapp
  children:
    - all
`, nil)

	if len(s.All().Parents()) != 0 {
		t.Errorf("Expected all to have no parents, got %v", groupNames(s.All().Parents()))
	}
	if got := groupNames(mustGroup(t, s, "global").Children()); !reflect.DeepEqual(got, []string{"_all"}) {
		t.Errorf("Expected global children [_all], got %v", got)
	}
}

func TestBuilder_Build_AllParentRedirected(t *testing.T) {
	s := buildFromYAML(t, `
- group: all
  parents:
    - global
`, nil)

	if len(s.All().Parents()) != 0 {
		t.Errorf("Expected all to have no parents, got %v", groupNames(s.All().Parents()))
	}
	if got := groupNames(s.Meta().Parents()); !reflect.DeepEqual(got, []string{"global"}) {
		t.Errorf("Expected _all parents [global], got %v", got)
	}
}

func TestBuilder_Build_CyclicGroups(t *testing.T) {
	s := buildFromYAML(t, `
- group: a
  children:
    - b
- group: b
  children:
    - a
`, nil)

	a := mustGroup(t, s, "a")
	b := mustGroup(t, s, "b")
	if len(a.Children()) != 1 || len(a.Parents()) != 1 || len(b.Children()) != 1 || len(b.Parents()) != 1 {
		t.Error("Expected a and b to be each other's parent and child exactly once")
	}
}

func TestBuilder_Build_AliasedSelfReference(t *testing.T) {
	s := buildFromYAML(t, `
- &loop
  group: loop
  vars:
    - n: 1
  children:
    - *loop
`, nil)

	loop := mustGroup(t, s, "loop")
	if len(loop.Children()) != 1 || loop.Children()[0] != loop {
		t.Errorf("Expected loop to be its own child once, got %v", groupNames(loop.Children()))
	}
}

func TestBuilder_Build_GroupAndHostKeys(t *testing.T) {
	s := buildFromYAML(t, `
- group: solo
  host: solo1
  vars:
    - x: 1
`, nil)

	if mustGroup(t, s, "solo").Vars["x"] != 1 {
		t.Error("Expected group declaration to be processed")
	}
	if mustHost(t, s, "solo1").Vars["x"] != 1 {
		t.Error("Expected host declaration to be processed")
	}
}

func TestBuilder_Build_ImportVars(t *testing.T) {
	loader := mapLoader{
		"common.yml": VarList{{Key: "ntp", Value: "pool.ntp.org"}, {Key: "port", Value: 22}},
		"db1.yml":    VarList{{Key: "disk", Value: "ssd"}},
	}

	s := buildFromYAML(t, `
- group: base
  import_vars:
    - common.yml
  vars:
    - port: 2222
- host: db1
  import_vars:
    - db1.yml
`, loader)

	base := mustGroup(t, s, "base")
	if base.Vars["ntp"] != "pool.ntp.org" {
		t.Errorf("Expected imported ntp var, got %v", base.Vars["ntp"])
	}
	if base.Vars["port"] != 2222 {
		t.Errorf("Expected inline vars to override imported vars, got %v", base.Vars["port"])
	}
	if mustHost(t, s, "db1").Vars["disk"] != "ssd" {
		t.Error("Expected host import_vars to be applied")
	}
}

func TestBuilder_Build_HostInlineVarsOverrideImported(t *testing.T) {
	loader := mapLoader{
		"db1.yml": VarList{{Key: "x", Value: "imported"}, {Key: "disk", Value: "ssd"}},
	}

	s := buildFromYAML(t, `
- host: db1
  vars:
    x: inline
  import_vars:
    - db1.yml
`, loader)

	host := mustHost(t, s, "db1")
	if host.Vars["x"] != "inline" {
		t.Errorf("Expected inline host vars to override imported vars, got %v", host.Vars["x"])
	}
	if host.Vars["disk"] != "ssd" {
		t.Errorf("Expected imported disk var, got %v", host.Vars["disk"])
	}
}

func TestBuilder_Build_VarsMergeKey(t *testing.T) {
	s := buildFromYAML(t, `
- group: base
  vars: &common {ntp: pool}
- group: web
  vars: {<<: *common, port: 80}
`, nil)

	expected := Vars{"ntp": "pool", "port": 80}
	if web := mustGroup(t, s, "web"); !reflect.DeepEqual(web.Vars, expected) {
		t.Errorf("Expected %v, got %v", expected, web.Vars)
	}
}

func TestBuilder_Build_ImportVarsMissing(t *testing.T) {
	doc, err := ParseDocument([]byte("- group: base\n  import_vars:\n    - missing.yml\n"))
	if err != nil {
		t.Fatalf("Failed to parse document: %v", err)
	}

	builder := NewBuilder(NewStore(), mapLoader{}, zerolog.Nop())
	err = builder.Build(doc)
	if err == nil {
		t.Fatal("Expected error for missing import file")
	}
	if !IsInputMissing(err) {
		t.Errorf("Expected input_missing error, got %v", err)
	}
}

func TestBuilder_ParseGroup_BareNameDoesNotTouchBody(t *testing.T) {
	store := NewStore()
	builder := NewBuilder(store, nil, zerolog.Nop())

	first, err := builder.ParseGroup(BareName("web"))
	if err != nil {
		t.Fatalf("ParseGroup failed: %v", err)
	}
	second, err := builder.ParseGroup(&GroupRecord{Name: "web", Vars: VarList{{Key: "x", Value: 1}}})
	if err != nil {
		t.Fatalf("ParseGroup failed: %v", err)
	}

	if first != second {
		t.Fatal("Expected bare name and record to resolve to the same group")
	}
	if first.Vars["x"] != 1 {
		t.Error("Expected record vars on the shared group")
	}
}
