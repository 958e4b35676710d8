package storage

import (
	"reflect"
	"testing"
)

// TestWhere_Empty verifies no predicates render no clause.
func TestWhere_Empty(t *testing.T) {
	w := NewWhere().Eq("role", "").Like("  ", "name").DayFrom("created_at", "").DayTo("created_at", "nope")
	if w.SQL() != "" {
		t.Errorf("SQL() = %q, want empty", w.SQL())
	}
	if len(w.Args()) != 0 {
		t.Errorf("Args() = %v, want none", w.Args())
	}
}

// TestWhere_OrderAndArgs verifies predicate and argument order follow call order.
func TestWhere_OrderAndArgs(t *testing.T) {
	build := func() *Where {
		return NewWhere().
			Eq("a.activity_type", "menu_item").
			DayFrom("a.created_at", "2026-01-01").
			DayTo("a.created_at", "2026-01-31").
			Like("rice", "a.description", "u.name")
	}
	w := build()
	wantSQL := ` WHERE a.activity_type = ? AND a.created_at >= ? AND a.created_at <= ? AND (a.description LIKE ? ESCAPE '\' OR u.name LIKE ? ESCAPE '\')`
	if w.SQL() != wantSQL {
		t.Errorf("SQL() =\n%q\nwant\n%q", w.SQL(), wantSQL)
	}
	wantArgs := []any{"menu_item", "2026-01-01 00:00:00", "2026-01-31 23:59:59", "%rice%", "%rice%"}
	if !reflect.DeepEqual(w.Args(), wantArgs) {
		t.Errorf("Args() = %v, want %v", w.Args(), wantArgs)
	}

	again := build()
	if again.SQL() != w.SQL() || !reflect.DeepEqual(again.Args(), w.Args()) {
		t.Error("identical input produced different output")
	}
}

// TestWhere_LikeEscapesWildcards verifies % and _ are matched literally.
func TestWhere_LikeEscapesWildcards(t *testing.T) {
	w := NewWhere().Like("50%_off", "name")
	if got := w.Args()[0]; got != `%50\%\_off%` {
		t.Errorf("pattern = %q", got)
	}
}

// TestWhere_ArgsIsCopy verifies callers cannot mutate the builder through Args.
func TestWhere_ArgsIsCopy(t *testing.T) {
	w := NewWhere().Eq("status", "active")
	args := w.Args()
	args[0] = "tampered"
	if w.Args()[0] != "active" {
		t.Error("Args() exposed internal slice")
	}
}

// TestWhere_EqIntAndBool covers the typed helpers.
func TestWhere_EqIntAndBool(t *testing.T) {
	w := NewWhere().EqInt("category_id", 0).EqInt("category_id", 3).Bool("is_active", true)
	if w.SQL() != " WHERE category_id = ? AND is_active = ?" {
		t.Errorf("SQL() = %q", w.SQL())
	}
	if !reflect.DeepEqual(w.Args(), []any{int64(3), 1}) {
		t.Errorf("Args() = %v", w.Args())
	}
	if w.Len() != 2 {
		t.Errorf("Len() = %d", w.Len())
	}
}
