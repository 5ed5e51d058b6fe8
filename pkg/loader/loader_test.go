package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadResolvesSiblingImport(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.wisp"), `module Main exposing (main)

import Utils

main = Utils.double 21
`)
	writeFile(t, filepath.Join(dir, "Utils.wisp"), `module Utils exposing (..)

double x = x * 2
`)

	env, err := Load(filepath.Join(dir, "Main.wisp"), nil, t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := env.GetFunction("Utils", "double"); !ok {
		t.Fatal("expected Utils.double to be registered")
	}
	if _, ok := env.GetFunction("Main", "main"); !ok {
		t.Fatal("expected Main.main to be registered")
	}
}

func TestLoadResolvesPathDependency(t *testing.T) {
	workDir := t.TempDir()
	depDir := t.TempDir()

	writeFile(t, filepath.Join(workDir, "Main.wisp"), `module Main exposing (main)

import Ext.Thing

main = Ext.Thing.value
`)
	writeFile(t, filepath.Join(depDir, "Thing.wisp"), `module Ext.Thing exposing (..)

value = 99
`)

	manifest := &Manifest{
		Path: filepath.Join(workDir, "wisp.yml"),
		Name: "app",
		Dependencies: map[string]DependencySpec{
			"Ext": {Path: depDir},
		},
	}

	env, err := Load(filepath.Join(workDir, "Main.wisp"), manifest, t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := env.GetFunction("Ext.Thing", "value"); !ok {
		t.Fatal("expected Ext.Thing.value to be registered")
	}
}

func TestLoadDetectsImportCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.wisp"), `module Main exposing (main)

import A

main = A.a
`)
	writeFile(t, filepath.Join(dir, "A.wisp"), `module A exposing (..)

import B

a = B.b
`)
	writeFile(t, filepath.Join(dir, "B.wisp"), `module B exposing (..)

import A

b = A.a
`)

	_, err := Load(filepath.Join(dir, "Main.wisp"), nil, t.TempDir())
	if err == nil {
		t.Fatal("expected an import cycle error")
	}
	if _, ok := err.(*CycleError); !ok {
		t.Fatalf("expected *CycleError, got %T: %v", err, err)
	}
}

func TestLoadIncludesStandardLibrary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "Main.wisp"), `module Main exposing (main)

main = List.length [1, 2, 3]
`)
	env, err := Load(filepath.Join(dir, "Main.wisp"), nil, t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := env.GetFunction("List", "length"); !ok {
		t.Fatal("expected the standard library's List.length to be registered")
	}
}

func TestManifestValidation(t *testing.T) {
	tests := []struct {
		name    string
		m       Manifest
		wantErr bool
	}{
		{"missing name", Manifest{}, true},
		{"dependency with neither git nor path", Manifest{Name: "x", Dependencies: map[string]DependencySpec{"a": {}}}, true},
		{"dependency with both git and path", Manifest{Name: "x", Dependencies: map[string]DependencySpec{"a": {Git: "g", Path: "p"}}}, true},
		{"dependency with two pins", Manifest{Name: "x", Dependencies: map[string]DependencySpec{"a": {Git: "g", Rev: "r", Tag: "t"}}}, true},
		{"valid", Manifest{Name: "x", Dependencies: map[string]DependencySpec{"a": {Git: "g", Rev: "r"}}}, false},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.m.validate()
			if (err != nil) != test.wantErr {
				t.Fatalf("validate() = %v, wantErr %v", err, test.wantErr)
			}
		})
	}
}

func TestLockfileRoundTrip(t *testing.T) {
	lock := NewLockfile("app")
	lock.Packages["Ext"] = &LockedPackage{Name: "Ext", Source: "https://example.com/ext.git", Commit: "abc123"}

	path := filepath.Join(t.TempDir(), "wisp.lock")
	if err := WriteLockfile(lock, path); err != nil {
		t.Fatalf("WriteLockfile: %v", err)
	}

	loaded, err := LoadLockfile(path)
	if err != nil {
		t.Fatalf("LoadLockfile: %v", err)
	}
	if loaded.Root != "app" {
		t.Errorf("Root: got %q, want %q", loaded.Root, "app")
	}
	pkg, ok := loaded.Packages["Ext"]
	if !ok {
		t.Fatal("expected an Ext package entry")
	}
	if pkg.Commit != "abc123" {
		t.Errorf("Commit: got %q, want %q", pkg.Commit, "abc123")
	}
}
