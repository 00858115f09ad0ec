package wgui_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-theft-auto/wgui"
)

func TestUseStateKeepsValueAcrossPasses(t *testing.T) {
	store := wgui.NewHookStore()

	s := store.BeginPass(0)
	a, setA := wgui.UseState(s, 7)
	b, _ := wgui.UseState(s, "x")
	if err := store.EndPass(); err != nil {
		t.Fatal(err)
	}
	if a != 7 || b != "x" {
		t.Fatalf("first render = %v, %q", a, b)
	}

	setA(42)
	setA(43)

	s = store.BeginPass(0)
	a, _ = wgui.UseState(s, 7)
	b, _ = wgui.UseState(s, "x")
	if err := store.EndPass(); err != nil {
		t.Fatal(err)
	}
	if a != 43 {
		t.Errorf("second render a = %v, want last written 43", a)
	}
	if b != "x" {
		t.Errorf("second render b = %q", b)
	}
}

func TestUseStateSetterDoesNotChangeCurrentValue(t *testing.T) {
	store := wgui.NewHookStore()
	s := store.BeginPass(0)
	v, set := wgui.UseState(s, 1)
	set(2)
	if v != 1 {
		t.Errorf("value read in this pass changed to %v", v)
	}
	store.EndPass()
}

func TestUseEffectDependencies(t *testing.T) {
	store := wgui.NewHookStore()
	runs := 0
	render := func(deps []any) {
		s := store.BeginPass(0)
		wgui.UseEffect(s, func() { runs++ }, deps)
		if err := store.EndPass(); err != nil {
			t.Fatal(err)
		}
	}

	render([]any{1, "a"})
	if runs != 1 {
		t.Fatalf("expected effect to run on first render, runs = %d", runs)
	}
	render([]any{1, "a"})
	if runs != 1 {
		t.Errorf("expected no run for equal deps, runs = %d", runs)
	}
	render([]any{2, "a"})
	if runs != 2 {
		t.Errorf("expected run for changed deps, runs = %d", runs)
	}
	render([]any{2, "a", true})
	if runs != 3 {
		t.Errorf("expected run for changed length, runs = %d", runs)
	}
	render([]any{2, "a", true})
	if runs != 3 {
		t.Errorf("expected no run, runs = %d", runs)
	}
}

func TestUseEffectNilDepsRunsEveryRender(t *testing.T) {
	store := wgui.NewHookStore()
	runs := 0
	for i := 0; i < 3; i++ {
		s := store.BeginPass(0)
		wgui.UseEffect(s, func() { runs++ }, nil)
		store.EndPass()
	}
	if runs != 3 {
		t.Errorf("runs = %d, want 3", runs)
	}
}

func TestUseEffectEmptyDepsRunsOnce(t *testing.T) {
	store := wgui.NewHookStore()
	runs := 0
	for i := 0; i < 3; i++ {
		s := store.BeginPass(0)
		wgui.UseEffect(s, func() { runs++ }, []any{})
		store.EndPass()
	}
	if runs != 1 {
		t.Errorf("runs = %d, want 1", runs)
	}
}

func TestUseEffectComparesSlicesByValue(t *testing.T) {
	store := wgui.NewHookStore()
	runs := 0
	for _, dep := range [][]int{{1, 2}, {1, 2}, {1, 3}} {
		s := store.BeginPass(0)
		wgui.UseEffect(s, func() { runs++ }, []any{dep})
		store.EndPass()
	}
	if runs != 2 {
		t.Errorf("runs = %d, want 2", runs)
	}
}

func TestChildScopesHaveIndependentState(t *testing.T) {
	store := wgui.NewHookStore()
	counter := func(s *wgui.Scope) (int, func(int)) { return wgui.UseState(s, 0) }

	root := store.BeginPass(0)
	_, setFirst := counter(root.Next())
	_, _ = counter(root.Next())
	store.EndPass()
	setFirst(5)

	root = store.BeginPass(0)
	first, _ := counter(root.Next())
	second, _ := counter(root.Next())
	store.EndPass()

	if first != 5 || second != 0 {
		t.Errorf("first = %d, second = %d; want 5, 0", first, second)
	}
}

func TestKeyedStateFollowsKeyWhenReordered(t *testing.T) {
	store := wgui.NewHookStore()
	items := []string{"a", "b", "c"}
	setters := map[string]func(string){}

	root := store.BeginPass(0)
	for _, k := range items {
		_, set := wgui.UseState(root.Key(k), "")
		setters[k] = set
	}
	store.EndPass()
	for _, k := range items {
		setters[k](strings.ToUpper(k))
	}

	root = store.BeginPass(0)
	for _, k := range []string{"c", "a", "b"} {
		v, _ := wgui.UseState(root.Key(k), "")
		if v != strings.ToUpper(k) {
			t.Errorf("key %q has state %q", k, v)
		}
	}
	if err := store.EndPass(); err != nil {
		t.Fatal(err)
	}
}

func TestUnrenderedInstancesAreSwept(t *testing.T) {
	store := wgui.NewHookStore()

	root := store.BeginPass(0)
	_, set := wgui.UseState(root.Key("modal"), 0)
	store.EndPass()
	set(9)
	if store.Len() != 2 {
		t.Fatalf("Len = %d, want 2", store.Len())
	}

	store.BeginPass(0)
	store.EndPass()
	if store.Len() != 1 {
		t.Errorf("Len = %d after sweep, want 1", store.Len())
	}

	root = store.BeginPass(0)
	v, _ := wgui.UseState(root.Key("modal"), 0)
	store.EndPass()
	if v != 0 {
		t.Errorf("remounted instance kept state %d", v)
	}
}

func TestDuplicateKeyFailsPass(t *testing.T) {
	store := wgui.NewHookStore()
	root := store.BeginPass(0)
	root.Key("row")
	root.Key("row")
	if err := store.EndPass(); !errors.Is(err, wgui.ErrDuplicateKey) {
		t.Errorf("EndPass() = %v, want ErrDuplicateKey", err)
	}
}

func TestStrictHooksDetectsCountChange(t *testing.T) {
	store := wgui.NewHookStore()
	store.SetStrict(true)

	s := store.BeginPass(0)
	wgui.UseState(s, 0)
	wgui.UseState(s, 0)
	if err := store.EndPass(); err != nil {
		t.Fatal(err)
	}

	s = store.BeginPass(0)
	wgui.UseState(s, 0)
	if err := store.EndPass(); !errors.Is(err, wgui.ErrHookOrder) {
		t.Errorf("EndPass() = %v, want ErrHookOrder", err)
	}
}

func TestStrictHooksDetectsKindChange(t *testing.T) {
	store := wgui.NewHookStore()
	store.SetStrict(true)

	s := store.BeginPass(0)
	wgui.UseState(s, 0)
	store.EndPass()

	s = store.BeginPass(0)
	wgui.UseState(s, "now a string")
	if err := store.EndPass(); !errors.Is(err, wgui.ErrHookOrder) {
		t.Errorf("EndPass() = %v, want ErrHookOrder", err)
	}
}

func TestLenientHooksResetMismatchedCell(t *testing.T) {
	var buf bytes.Buffer
	wgui.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	defer wgui.SetLogger(nil)

	store := wgui.NewHookStore()
	s := store.BeginPass(0)
	wgui.UseState(s, 1)
	store.EndPass()

	s = store.BeginPass(0)
	v, _ := wgui.UseState(s, "fresh")
	if err := store.EndPass(); err != nil {
		t.Fatal(err)
	}
	if v != "fresh" {
		t.Errorf("mismatched cell = %q, want reset to initial", v)
	}
	if !strings.Contains(buf.String(), "hook order violation") {
		t.Errorf("expected a warning, log = %q", buf.String())
	}
}

func TestScopeIDsAreStable(t *testing.T) {
	store := wgui.NewHookStore()
	root := store.BeginPass(0)
	a, b, k := root.Next().ID(), root.Next().ID(), root.Key("k").ID()
	store.EndPass()

	root = store.BeginPass(0)
	if root.Next().ID() != a || root.Next().ID() != b || root.Key("k").ID() != k {
		t.Error("expected identical IDs for identical structure")
	}
	store.EndPass()
	if a == b || a == k {
		t.Error("expected distinct IDs for distinct children")
	}
}

func TestUseStateStableAcrossInterleavedSetters(t *testing.T) {
	initial := []int{10, 11, 12, 13}
	tests := []struct {
		name   string
		writes [][2]int // per pass: {hook index, value}; index -1 writes nothing
		want   []int
	}{
		{"first hook last", [][2]int{{3, 30}, {1, 21}, {0, 100}}, []int{100, 21, 12, 30}},
		{"last hook last", [][2]int{{0, 1}, {2, 22}, {3, 33}}, []int{1, 11, 22, 33}},
		{"same hook repeatedly", [][2]int{{2, 5}, {2, 6}, {2, 7}, {-1, 0}}, []int{10, 11, 7, 13}},
		{"idle passes", [][2]int{{-1, 0}, {-1, 0}, {1, 20}, {-1, 0}, {-1, 0}}, []int{10, 20, 12, 13}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := wgui.NewHookStore()
			store.SetStrict(true)
			setters := make([]func(int), len(initial))
			vals := make([]int, len(initial))
			render := func() {
				s := store.BeginPass(0)
				for i, v := range initial {
					vals[i], setters[i] = wgui.UseState(s, v)
				}
				if err := store.EndPass(); err != nil {
					t.Fatal(err)
				}
			}

			render()
			for _, w := range tt.writes {
				if w[0] >= 0 {
					setters[w[0]](w[1])
				}
				render()
			}
			// Extra passes with no writes must not disturb anything.
			for range 5 {
				render()
			}
			for i := range tt.want {
				if vals[i] != tt.want[i] {
					t.Fatalf("vals = %v, want %v", vals, tt.want)
				}
			}
		})
	}
}
