package contract

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNoDeployment is returned when a network has no recorded deployment of
// a contract.
var ErrNoDeployment = errors.New("no deployment recorded")

// Deployment is one recorded contract deployment.
type Deployment struct {
	Name       string         `json:"name"`
	Address    common.Address `json:"address"`
	TxHash     common.Hash    `json:"tx_hash"`
	Block      uint64         `json:"block"`
	DeployedAt time.Time      `json:"deployed_at"`
}

// Deployments is a JSON-file registry of deployments, ordered oldest first
// per network. A registry with an empty path lives in memory only.
type Deployments struct {
	mu       sync.Mutex
	path     string
	networks map[string][]Deployment
}

// NewDeployments creates a registry backed by path.
func NewDeployments(path string) *Deployments {
	return &Deployments{
		path:     path,
		networks: make(map[string][]Deployment),
	}
}

// Load reads the registry from disk. A missing file is an empty registry.
func (d *Deployments) Load() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.path == "" {
		return nil
	}
	data, err := os.ReadFile(d.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}
	networks := make(map[string][]Deployment)
	if err := json.Unmarshal(data, &networks); err != nil {
		return fmt.Errorf("parsing %s: %w", d.path, err)
	}
	d.networks = networks
	return nil
}

// Record appends dep to network and persists the registry.
func (d *Deployments) Record(network string, dep Deployment) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.networks[network] = append(d.networks[network], dep)
	return d.save()
}

// Latest returns the most recent deployment of name on network.
func (d *Deployments) Latest(network, name string) (Deployment, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	deps := d.networks[network]
	for i := len(deps) - 1; i >= 0; i-- {
		if deps[i].Name == name {
			return deps[i], nil
		}
	}
	return Deployment{}, fmt.Errorf("%w: %s on %s", ErrNoDeployment, name, network)
}

// All returns every deployment on network, oldest first.
func (d *Deployments) All(network string) []Deployment {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]Deployment, len(d.networks[network]))
	copy(out, d.networks[network])
	return out
}

func (d *Deployments) save() error {
	if d.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(d.networks, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(d.path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(d.path, data, 0o600)
}
