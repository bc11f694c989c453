package types

// CollectionData describes one Ansible collection found on disk.  A
// collection is identified by its namespace/name pair; FullName is the
// dotted form used as the lookup key everywhere.  Instances are
// immutable once constructed.
type CollectionData struct {
	// CollectionsRootPath is the ansible_collections directory the
	// collection was found under, if it was found inside one.
	CollectionsRootPath string

	// Path is where the collection lives on disk.
	Path string

	Namespace string
	Name      string
	FullName  string

	// Version as declared in galaxy.yml or MANIFEST.json, empty when
	// not declared as a string.
	Version string

	// Dependencies maps collection full names to version constraints.
	// Only the keys are used for dependency resolution.
	Dependencies map[string]string

	// Current marks the collection under test, the one discovered at
	// the working directory.  Exactly one collection per list has it.
	Current bool
}

// SetupResult describes an assembled collection tree.
type SetupResult struct {
	// Root is the ansible_collections directory everything was
	// installed into.
	Root string

	// CurrentCollection is the collection under test as it exists in
	// the source repository.
	CurrentCollection CollectionData

	// CurrentPath is the current collection's location inside the
	// tree, or empty when it was not installed.
	CurrentPath string
}
