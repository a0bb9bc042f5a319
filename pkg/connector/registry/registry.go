// Package registry maps wrapper names to factories and keeps descriptive
// metadata about each wrapper for listing.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ajitpratap0/sheetsfdw/pkg/connector/core"
	"github.com/ajitpratap0/sheetsfdw/pkg/errors"
	"github.com/ajitpratap0/sheetsfdw/pkg/logger"
	"go.uber.org/zap"
)

// Registry manages wrapper registration and instantiation
type Registry struct {
	wrappers map[string]core.WrapperFactory
	mu       sync.RWMutex
	logger   *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new wrapper registry
func NewRegistry() *Registry {
	return &Registry{
		wrappers: make(map[string]core.WrapperFactory),
		logger:   logger.Get().With(zap.String("component", "wrapper_registry")),
	}
}

// RegisterWrapper registers a wrapper factory
func (r *Registry) RegisterWrapper(name string, factory core.WrapperFactory) error {
	if name == "" || factory == nil {
		return errors.New(errors.ErrorTypeValidation, "wrapper name and factory are required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.wrappers[name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("wrapper %s already registered", name))
	}

	r.wrappers[name] = factory
	r.logger.Debug("wrapper registered", zap.String("name", name))
	return nil
}

// CreateWrapper creates a wrapper instance. Each call returns a wrapper with
// its own state.
func (r *Registry) CreateWrapper(name string, reporter core.Reporter) (core.ForeignDataWrapper, error) {
	r.mu.RLock()
	factory, exists := r.wrappers[name]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("wrapper %s not found", name)).
			WithDetail("available", r.ListWrappers())
	}

	wrapper, err := factory(reporter)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create wrapper %s", name))
	}

	return wrapper, nil
}

// ListWrappers returns the registered wrapper names in sorted order
func (r *Registry) ListWrappers() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.wrappers))
	for name := range r.wrappers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Global registry functions

// RegisterWrapper registers a wrapper in the global registry
func RegisterWrapper(name string, factory core.WrapperFactory) error {
	return globalRegistry.RegisterWrapper(name, factory)
}

// CreateWrapper creates a wrapper from the global registry
func CreateWrapper(name string, reporter core.Reporter) (core.ForeignDataWrapper, error) {
	return globalRegistry.CreateWrapper(name, reporter)
}

// ListWrappers returns registered wrappers from the global registry
func ListWrappers() []string {
	return globalRegistry.ListWrappers()
}

// OptionInfo describes one option a wrapper reads
type OptionInfo struct {
	Scope       core.OptionsType `json:"scope" yaml:"scope"`
	Required    bool             `json:"required" yaml:"required"`
	Default     string           `json:"default,omitempty" yaml:"default,omitempty"`
	Description string           `json:"description" yaml:"description"`
}

// ConnectorInfo provides information about a wrapper
type ConnectorInfo struct {
	Name         string                `json:"name" yaml:"name"`
	Description  string                `json:"description" yaml:"description"`
	Version      string                `json:"version" yaml:"version"`
	Author       string                `json:"author" yaml:"author"`
	Website      string                `json:"website,omitempty" yaml:"website,omitempty"`
	HostVersion  string                `json:"host_version" yaml:"host_version"`
	Capabilities []string              `json:"capabilities" yaml:"capabilities"`
	ColumnTypes  []core.TypeOID        `json:"column_types" yaml:"column_types"`
	Options      map[string]OptionInfo `json:"options" yaml:"options"`
}

// ConnectorCatalog manages wrapper metadata
type ConnectorCatalog struct {
	connectors map[string]*ConnectorInfo
	mu         sync.RWMutex
}

// NewConnectorCatalog creates a new connector catalog
func NewConnectorCatalog() *ConnectorCatalog {
	return &ConnectorCatalog{
		connectors: make(map[string]*ConnectorInfo),
	}
}

// Register adds a wrapper to the catalog
func (c *ConnectorCatalog) Register(info *ConnectorInfo) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.connectors[info.Name]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %s already in catalog", info.Name))
	}

	c.connectors[info.Name] = info
	return nil
}

// Get retrieves wrapper information
func (c *ConnectorCatalog) Get(name string) (*ConnectorInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	info, exists := c.connectors[name]
	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector %s not found in catalog", name))
	}

	return info, nil
}

// List returns all wrappers in the catalog sorted by name
func (c *ConnectorCatalog) List() []*ConnectorInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()

	infos := make([]*ConnectorInfo, 0, len(c.connectors))
	for _, info := range c.connectors {
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

// Global catalog instance
var globalCatalog = NewConnectorCatalog()

// RegisterConnectorInfo registers wrapper information in the global catalog
func RegisterConnectorInfo(info *ConnectorInfo) error {
	return globalCatalog.Register(info)
}

// GetConnectorInfo retrieves wrapper information from the global catalog
func GetConnectorInfo(name string) (*ConnectorInfo, error) {
	return globalCatalog.Get(name)
}

// ListConnectorInfo lists all wrappers in the global catalog
func ListConnectorInfo() []*ConnectorInfo {
	return globalCatalog.List()
}
