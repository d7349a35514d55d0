package schema

import (
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
)

// Registry holds every registered Descriptor, keyed by Name, safe for
// concurrent lookup. The set of descriptors is fixed by NewRegistry;
// there is no method to register more.
type Registry struct {
	mu          sync.RWMutex
	descriptors map[Name]Descriptor
}

// NewRegistry builds a Registry pre-populated with every schema this
// module's agents (C6) and reasoning engine (C8) request structured
// output against.
func NewRegistry() *Registry {
	r := &Registry{descriptors: make(map[Name]Descriptor)}
	for _, d := range []Descriptor{
		GeneratedIdeasDescriptor(),
		CriticEvaluationsDescriptor(),
		AdvocacyResponseDescriptor(),
		SkepticismResponseDescriptor(),
		ImprovementResponseDescriptor(),
		MultiDimBatchDescriptor(),
		InferenceBatchDescriptor(),
	} {
		r.descriptors[d.Name] = d
	}
	return r
}

// Get returns the registered descriptor for name.
func (r *Registry) Get(name Name) (Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.descriptors[name]
	if !ok {
		return Descriptor{}, fmt.Errorf("schema %q is not registered", name)
	}
	return d, nil
}

// Validate runs the OpenAPI-3.0 schema's own structural checks (types,
// required fields, enum membership, min/max, array bounds) against an
// arbitrary decoded JSON value — used to sanity-check a provider's raw
// structured-output payload before it is unmarshalled into a typed Go
// record and passed through pkg's validator-tag validation.
func (r *Registry) Validate(name Name, value interface{}) error {
	d, err := r.Get(name)
	if err != nil {
		return err
	}
	return d.Schema.VisitJSON(value)
}

// resolveRefs runs openapi3's $ref resolver over a document containing
// one or more of this registry's schemas. It is unexported and has no
// caller: descriptors built in-process via the openapi3.New*Schema
// builders are always fully inlined, and no schema documents are loaded
// from disk.
func resolveRefs(doc *openapi3.T) error {
	loader := openapi3.NewLoader()
	return loader.ResolveRefsIn(doc, nil)
}
