package graph

// ModuleInfo is the flattened, sorted view of an AugmentedModule returned by
// the show query: a direct attribute read, not a traversal.
type ModuleInfo struct {
	Key                ModuleKey
	Used               bool
	Loaded             bool
	Dependants         []ModuleKey
	OriginalDependants []ModuleKey
	UsedDeps           []ModuleKey
	AllDeps            []ModuleKey
}
