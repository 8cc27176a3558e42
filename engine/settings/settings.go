package settings

import (
	"encoding/json"
	"log"

	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
	"github.com/quasilyte/gdata"
)

const (
	// AppName names the per-user data directory.
	AppName = "oxy-viewer"

	settingsKey = "settings"
)

// Saved is the settings data stored on disk.
type Saved struct {
	Environment  store.Environment `json:"environment"`
	MovementMode string            `json:"movementMode"`
	DebugPhysics bool              `json:"debugPhysics"`
}

// itemStore is the subset of *gdata.Manager the settings need.
type itemStore interface {
	LoadItem(key string) ([]byte, error)
	SaveItem(key string, data []byte) error
}

// persister is the implementation of the Persister interface.
type persister struct {
	items itemStore
}

// Persister loads and saves viewer settings. A Persister without backing storage is a no-op.
// Failures are logged as warnings and never stop the viewer.
type Persister interface {
	// Load returns the saved settings, or nil when nothing usable is stored.
	Load() *Saved

	// Save writes s.
	//
	// Returns:
	//   - error: serialization or storage failure, already logged
	Save(s *Saved) error

	// Apply copies saved settings into st. A nil s leaves st unchanged.
	Apply(st store.Store, s *Saved)

	// Bind saves the settings portion of st after every change that touches it.
	//
	// Returns:
	//   - func(): stops saving
	Bind(st store.Store) func()
}

var _ Persister = &persister{}

// Open creates a Persister backed by gdata under AppName.
// When the data directory cannot be opened a warning is logged and a no-op Persister is returned.
//
// Returns:
//   - Persister: the persister, never nil
func Open() Persister {
	m, err := gdata.Open(gdata.Config{AppName: AppName})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return &persister{}
	}
	return &persister{items: m}
}

// Disabled returns a Persister that never touches disk.
func Disabled() Persister {
	return &persister{}
}

func (p *persister) Load() *Saved {
	if p.items == nil {
		return nil
	}
	data, err := p.items.LoadItem(settingsKey)
	if err != nil {
		log.Printf("Warning: Could not load settings: %v", err)
		return nil
	}
	if data == nil {
		return nil
	}
	var s Saved
	if err := json.Unmarshal(data, &s); err != nil {
		log.Printf("Warning: Could not parse saved settings: %v", err)
		return nil
	}
	return &s
}

func (p *persister) Save(s *Saved) error {
	if p.items == nil || s == nil {
		return nil
	}
	data, err := json.Marshal(s)
	if err != nil {
		log.Printf("Warning: Could not serialize settings: %v", err)
		return err
	}
	if err := p.items.SaveItem(settingsKey, data); err != nil {
		log.Printf("Warning: Could not save settings: %v", err)
		return err
	}
	return nil
}

func (p *persister) Apply(st store.Store, s *Saved) {
	if s == nil {
		return
	}
	st.Set(func(state *store.State) {
		state.Environment = s.Environment
		state.MovementMode = controller.ParseMovementMode(s.MovementMode)
		state.DebugPhysics = s.DebugPhysics
	})
}

func (p *persister) Bind(st store.Store) func() {
	last := fromState(st.Get())
	return st.Subscribe(func(state store.State) {
		next := fromState(state)
		if next == last {
			return
		}
		last = next
		_ = p.Save(&next)
	})
}

func fromState(state store.State) Saved {
	return Saved{
		Environment:  state.Environment,
		MovementMode: state.MovementMode.String(),
		DebugPhysics: state.DebugPhysics,
	}
}
