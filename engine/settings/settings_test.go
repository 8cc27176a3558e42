package settings

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-viewer/engine/controller"
	"github.com/Carmen-Shannon/oxy-viewer/engine/store"
)

type memoryItems struct {
	items   map[string][]byte
	saves   int
	failing bool
}

func (m *memoryItems) LoadItem(key string) ([]byte, error) {
	if m.failing {
		return nil, errors.New("disk on fire")
	}
	return m.items[key], nil
}

func (m *memoryItems) SaveItem(key string, data []byte) error {
	if m.failing {
		return errors.New("disk on fire")
	}
	m.saves++
	m.items[key] = append([]byte(nil), data...)
	return nil
}

func newMemory() *memoryItems {
	return &memoryItems{items: map[string][]byte{}}
}

func TestLoadMissing(t *testing.T) {
	p := &persister{items: newMemory()}
	if got := p.Load(); got != nil {
		t.Errorf("Load() = %+v, want nil", got)
	}
}

func TestSaveLoadApply(t *testing.T) {
	p := &persister{items: newMemory()}
	saved := &Saved{
		Environment:  store.Environment{AmbientIntensity: 0.1, DirectionalIntensity: 1.5},
		MovementMode: "run",
	}
	if err := p.Save(saved); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	loaded := p.Load()
	if loaded == nil || *loaded != *saved {
		t.Fatalf("Load() = %+v, want %+v", loaded, saved)
	}

	st := store.NewStore()
	p.Apply(st, loaded)
	got := st.Get()
	if got.Environment != saved.Environment || got.MovementMode != controller.MovementRun {
		t.Errorf("applied state = %+v", got)
	}
}

func TestLoadCorrupt(t *testing.T) {
	mem := newMemory()
	mem.items[settingsKey] = []byte("{not json")
	if got := (&persister{items: mem}).Load(); got != nil {
		t.Errorf("Load() = %+v, want nil", got)
	}
}

func TestFailuresAreNotFatal(t *testing.T) {
	p := &persister{items: &memoryItems{failing: true}}
	if got := p.Load(); got != nil {
		t.Errorf("Load() = %+v, want nil", got)
	}
	if err := p.Save(&Saved{}); err == nil {
		t.Error("Save() error = nil, want storage error")
	}
}

func TestBindSavesOnSettingsChange(t *testing.T) {
	mem := newMemory()
	p := &persister{items: mem}
	st := store.NewStore()
	stop := p.Bind(st)

	st.SetAction("Jogging")
	if mem.saves != 0 {
		t.Errorf("action change saved settings %d times", mem.saves)
	}
	st.SetMovementMode(controller.MovementRun)
	st.ToggleDebugPhysics()
	if mem.saves != 2 {
		t.Errorf("saves = %d, want 2", mem.saves)
	}

	stop()
	st.ToggleDebugPhysics()
	if mem.saves != 2 {
		t.Errorf("saves after stop = %d, want 2", mem.saves)
	}
}

func TestDisabled(t *testing.T) {
	p := Disabled()
	if p.Load() != nil || p.Save(&Saved{}) != nil {
		t.Error("Disabled persister should be a no-op")
	}
	p.Apply(store.NewStore(), nil)
}
