// Package inventory builds an in-memory host/group graph from a YAML
// inventory document and answers the two dynamic-inventory queries.
//
// # Document Format
//
// A document is a list of host and group records:
//
//	- group: postgresql
//	  vars:
//	    - tier: db
//	  children:
//	    - group: siteA
//	      hosts:
//	        - 192.168.2.245
//	        - host: 192.168.2.247
//	          vars:
//	            promotable: false
//
//	- host: 192.168.2.1
//	  groups:
//	    - app
//
// Records may nest: a group's hosts may be host records, its children and
// parents may be group records, and a host's groups may be group records.
// "label: key" sets the variable key to the group's own name. "import_vars"
// lists YAML files whose variables are merged before the inline vars.
//
// # Graph
//
// The Store is an identity map: a name always resolves to the same Host or
// Group. Two groups always exist: "all", which holds every host, and "_all",
// a meta-root that replaces "all" whenever "all" is declared as a child.
// Membership and parent/child links are symmetric and recorded once.
//
// # Queries
//
// List returns every group except "all" with its direct hosts, own vars,
// children and parents, plus the resolved vars of every host. HostVars
// resolves one host: group vars in membership order (each group's parent
// chain first), then the host's own vars. Mapping values merge key-wise one
// level deep; everything else is replaced.
package inventory
