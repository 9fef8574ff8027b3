package memory

import (
	"testing"

	chunkmem "gastrolog/internal/chunk/memory"
)

func TestFactoryDefaultValues(t *testing.T) {
	factory := NewFactory()
	cm, _ := chunkmem.NewManager(chunkmem.Config{})

	im, err := factory(map[string]string{}, cm, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	mgr, ok := im.(*Manager)
	if !ok {
		t.Fatal("expected *Manager")
	}

	if len(mgr.indexers) != 1 {
		t.Errorf("expected 1 indexer, got %d", len(mgr.indexers))
	}

	if mgr.tindexStore == nil {
		t.Error("expected temporal indexer to be wired by default")
	}
}

func TestFactoryCustomLevelRange(t *testing.T) {
	factory := NewFactory()
	cm, _ := chunkmem.NewManager(chunkmem.Config{})

	_, err := factory(map[string]string{
		ParamMinLevel: "minute",
		ParamMaxLevel: "hour",
	}, cm, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFactoryInvalidLevelRange(t *testing.T) {
	factory := NewFactory()
	cm, _ := chunkmem.NewManager(chunkmem.Config{})

	if _, err := factory(map[string]string{ParamMinLevel: "bogus"}, cm, nil); err == nil {
		t.Error("expected error for invalid tindexMinLevel")
	}

	if _, err := factory(map[string]string{
		ParamMinLevel: "day",
		ParamMaxLevel: "minute",
	}, cm, nil); err == nil {
		t.Error("expected error when tindexMinLevel exceeds tindexMaxLevel")
	}
}
