package stdlib

import "testing"

func TestModulesParse(t *testing.T) {
	mods, err := Modules()
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	if len(mods) == 0 {
		t.Fatal("expected at least one standard library module")
	}
}

func TestModulesExposeExpectedNames(t *testing.T) {
	mods, err := Modules()
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	byName := make(map[string]map[string]bool)
	for _, m := range mods {
		fns := make(map[string]bool, len(m.Decls))
		for _, d := range m.Decls {
			fns[d.Name] = true
		}
		byName[m.Name] = fns
	}

	want := map[string][]string{
		"Basics": {"add", "sub", "mul", "eq", "not", "identity", "compose"},
		"List":   {"map", "filter", "foldl", "foldr", "length", "reverse", "range"},
		"String": {"length", "toUpper", "toLower", "split", "join"},
		"Maybe":  {"withDefault", "map", "andThen"},
		"Result": {"withDefault", "map", "andThen"},
	}
	for mod, names := range want {
		fns, ok := byName[mod]
		if !ok {
			t.Errorf("expected a %s module in the standard library", mod)
			continue
		}
		for _, name := range names {
			if !fns[name] {
				t.Errorf("%s: expected an exposed %s function", mod, name)
			}
		}
	}
}

func TestModulesMemoized(t *testing.T) {
	first, err := Modules()
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	second, err := Modules()
	if err != nil {
		t.Fatalf("Modules: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("expected repeated calls to return the same module set, got %d then %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("module %d: expected the same *ast.Module pointer across calls", i)
		}
	}
}
