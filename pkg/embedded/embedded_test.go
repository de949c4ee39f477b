package embedded

import (
	"testing"
	"testing/fstest"
)

func withTestFS(t *testing.T) {
	t.Helper()
	Init(fstest.MapFS{
		"data/scenes/demo.yaml":  {Data: []byte("name: demo\n")},
		"data/scenes/other.yml":  {Data: []byte("name: other\n")},
		"data/scenes/readme.txt": {Data: []byte("x")},
	})
	t.Cleanup(func() { Init(nil) })
}

func TestNotInitialized(t *testing.T) {
	Init(nil)
	if IsInitialized() {
		t.Fatal("Init(nil) should leave the package uninitialized")
	}
	if _, err := ReadFile("data/scenes/demo.yaml"); err == nil {
		t.Error("ReadFile before Init should fail")
	}
	if Exists("data/scenes/demo.yaml") {
		t.Error("Exists before Init should be false")
	}
	if _, err := Glob("data/scenes/*.yaml"); err == nil {
		t.Error("Glob before Init should fail")
	}
}

func TestReadFile(t *testing.T) {
	withTestFS(t)

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"相对路径", "data/scenes/demo.yaml", "name: demo\n", false},
		{"带 ./ 前缀", "./data/scenes/demo.yaml", "name: demo\n", false},
		{"不存在", "data/scenes/missing.yaml", "", true},
		{"未知前缀", "assets/demo.yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

func TestExistsAndGlob(t *testing.T) {
	withTestFS(t)

	if !Exists("data/scenes/other.yml") || Exists("data/scenes/none.yml") {
		t.Error("Exists mismatch")
	}
	matches, err := Glob("data/scenes/*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if len(matches) != 1 || matches[0] != "data/scenes/demo.yaml" {
		t.Errorf("Glob = %v", matches)
	}
}
