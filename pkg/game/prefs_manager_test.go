package game

import (
	"os"
	"testing"

	"github.com/quasilyte/gdata/v2"
)

// openTestGdata 在临时 HOME 下打开 gdata 存储
func openTestGdata(t *testing.T, appName string) *gdata.Manager {
	t.Helper()
	tempDir := t.TempDir()
	originalHome := os.Getenv("HOME")
	os.Setenv("HOME", tempDir)
	t.Cleanup(func() { os.Setenv("HOME", originalHome) })

	gdataManager, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		t.Fatalf("Failed to create gdata manager: %v", err)
	}
	return gdataManager
}

func TestPrefsManagerMemoryMode(t *testing.T) {
	pm := NewPrefsManager(nil)
	if pm.IsPersistent() {
		t.Error("nil gdata manager should be memory mode")
	}

	if got := pm.GetInt("FinalMoveDoor"); got != 0 {
		t.Errorf("unset key = %d, want 0", got)
	}
	pm.SetInt("FinalMoveDoor", 1)
	if got := pm.GetInt("FinalMoveDoor"); got != 1 {
		t.Errorf("GetInt = %d, want 1", got)
	}
	if !pm.HasKey("FinalMoveDoor") || pm.HasKey("OpenStaticDoor") {
		t.Error("HasKey mismatch")
	}
	if err := pm.Save(); err != nil {
		t.Errorf("Save in memory mode: %v", err)
	}
	if err := pm.DeleteAll(); err != nil {
		t.Fatal(err)
	}
	if len(pm.Keys()) != 0 {
		t.Errorf("Keys after DeleteAll = %v", pm.Keys())
	}
}

// TestPrefsManagerPersistence 写入后用新的管理器重新加载
func TestPrefsManagerPersistence(t *testing.T) {
	gdataManager := openTestGdata(t, "test_prefs")

	pm := NewPrefsManager(gdataManager)
	if !pm.IsPersistent() {
		t.Fatal("expected persistent prefs")
	}
	pm.SetInt("FinalMoveGate", 1)
	pm.SetInt("OpenStaticCrate", 1)
	pm.SetInt("FinalRotationLid", 0)

	reloaded := NewPrefsManager(gdataManager)
	tests := []struct {
		key  string
		want int
	}{
		{"FinalMoveGate", 1},
		{"OpenStaticCrate", 1},
		{"FinalRotationLid", 0},
		{"FinalScaleCrate", 0},
	}
	for _, tt := range tests {
		if got := reloaded.GetInt(tt.key); got != tt.want {
			t.Errorf("GetInt(%s) = %d, want %d", tt.key, got, tt.want)
		}
	}

	keys := reloaded.Keys()
	want := []string{"FinalMoveGate", "FinalRotationLid", "OpenStaticCrate"}
	if len(keys) != len(want) {
		t.Fatalf("Keys = %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Errorf("Keys[%d] = %s, want %s", i, keys[i], want[i])
		}
	}

	if err := reloaded.DeleteAll(); err != nil {
		t.Fatal(err)
	}
	if got := NewPrefsManager(gdataManager).GetInt("FinalMoveGate"); got != 0 {
		t.Errorf("after DeleteAll GetInt = %d, want 0", got)
	}
}

func TestPrefsManagerCorruptData(t *testing.T) {
	gdataManager := openTestGdata(t, "test_prefs_corrupt")
	if err := gdataManager.SaveObjectProp(prefsObject, prefsProperty, []byte("not: [valid")); err != nil {
		t.Fatal(err)
	}

	pm := NewPrefsManager(gdataManager)
	if len(pm.Keys()) != 0 {
		t.Errorf("corrupt data should load as empty, got %v", pm.Keys())
	}
	if err := pm.Load(); err == nil {
		t.Error("Load should report corrupt data")
	}

	pm.SetInt("FinalMoveDoor", 1)
	if got := NewPrefsManager(gdataManager).GetInt("FinalMoveDoor"); got != 1 {
		t.Error("SetInt should overwrite corrupt data")
	}
}
