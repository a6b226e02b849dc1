// Package registry holds the node factories and builds handlers for the
// executor by node type.
package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/flowgraph-io/flowgraph/pkg/protocol"
)

var ErrNodeTypeNotRegistered = errors.New("node type not registered")

type Registry struct {
	logger    *slog.Logger
	mu        sync.RWMutex
	factories map[string]protocol.NodeFactory
}

func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		logger:    logger.With("module", "registry"),
		factories: make(map[string]protocol.NodeFactory),
	}
}

func (r *Registry) RegisterNode(factory protocol.NodeFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[factory.ID()] = factory
}

// CreateNode builds a handler for the given node type with its resolved
// configuration.
func (r *Registry) CreateNode(nodeType, nodeID string, config map[string]any) (protocol.NodeHandler, error) {
	r.mu.RLock()
	factory, ok := r.factories[nodeType]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeTypeNotRegistered, nodeType)
	}

	return factory.Create(nodeID, config)
}

// IsRegistered reports whether a factory exists for the node type.
func (r *Registry) IsRegistered(nodeType string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.factories[nodeType]

	return ok
}

// ValidateConfig checks a raw node configuration against the factory's JSON
// schema. Factories without a schema accept any configuration.
func (r *Registry) ValidateConfig(nodeType string, config map[string]any) error {
	r.mu.RLock()
	factory, ok := r.factories[nodeType]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeTypeNotRegistered, nodeType)
	}

	schema := factory.Schema()
	if schema == nil {
		return nil
	}

	schemaLoader := gojsonschema.NewGoLoader(schema)
	dataLoader := gojsonschema.NewGoLoader(config)

	result, err := gojsonschema.Validate(schemaLoader, dataLoader)
	if err != nil {
		return fmt.Errorf("failed to validate node config: %w", err)
	}

	if !result.Valid() {
		validationErrors := make([]error, 0, len(result.Errors()))
		for _, resultError := range result.Errors() {
			validationErrors = append(validationErrors, errors.New(resultError.String()))
		}

		return fmt.Errorf("invalid %s config: %w", nodeType, errors.Join(validationErrors...))
	}

	return nil
}

// NodeTypes lists the registered node types in sorted order.
func (r *Registry) NodeTypes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]string, 0, len(r.factories))
	for nodeType := range r.factories {
		types = append(types, nodeType)
	}

	sort.Strings(types)

	return types
}
