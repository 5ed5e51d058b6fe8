package parser

import (
	"testing"
)

func TestParseModuleHeader(t *testing.T) {
	src := `module List exposing (map, filter)

import Basics exposing (..)
import Maybe as M

map f xs = xs
`
	mod, err := ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if mod.Name != "List" {
		t.Errorf("Name: got %q, want %q", mod.Name, "List")
	}
	if len(mod.Exposing) != 2 || mod.Exposing[0] != "map" || mod.Exposing[1] != "filter" {
		t.Errorf("Exposing: got %v", mod.Exposing)
	}
	if len(mod.Imports) != 2 {
		t.Fatalf("expected 2 imports, got %d", len(mod.Imports))
	}
	if mod.Imports[0].Module != "Basics" || len(mod.Imports[0].Exposing) != 1 || mod.Imports[0].Exposing[0] != ".." {
		t.Errorf("first import: got %+v", mod.Imports[0])
	}
	if mod.Imports[1].Module != "Maybe" || mod.Imports[1].Alias != "M" {
		t.Errorf("second import: got %+v", mod.Imports[1])
	}
	if len(mod.Decls) != 1 || mod.Decls[0].Name != "map" {
		t.Fatalf("decls: got %+v", mod.Decls)
	}
}

func TestParseModuleExposingAll(t *testing.T) {
	mod, err := ParseModule("module Basics exposing (..)\n\nid x = x\n")
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(mod.Exposing) != 1 || mod.Exposing[0] != ".." {
		t.Errorf("Exposing: got %v, want [..]", mod.Exposing)
	}
}

func TestParseMultipleTopLevelDecls(t *testing.T) {
	src := `module M exposing (..)

add a b = a + b
sub a b = a - b
`
	mod, err := ParseModule(src)
	if err != nil {
		t.Fatalf("ParseModule: %v", err)
	}
	if len(mod.Decls) != 2 {
		t.Fatalf("expected 2 decls, got %d", len(mod.Decls))
	}
	if mod.Decls[0].Name != "add" || len(mod.Decls[0].Params) != 2 {
		t.Errorf("decl 0: got %+v", mod.Decls[0])
	}
	if mod.Decls[1].Name != "sub" || len(mod.Decls[1].Params) != 2 {
		t.Errorf("decl 1: got %+v", mod.Decls[1])
	}
}

func TestParseModuleMissingModuleKeyword(t *testing.T) {
	_, err := ParseModule("List exposing (..)\n")
	if err == nil {
		t.Fatal("expected an error for a missing 'module' keyword")
	}
}
