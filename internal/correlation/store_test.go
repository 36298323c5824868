package correlation

import "testing"

type fakeIndexer struct {
	calls [][3]string
}

func (f *fakeIndexer) CorrelateWord(word, synonym string, closeness float64) {
	f.calls = append(f.calls, [3]string{word, synonym, ""})
}

func TestAddPersistsAndReloads(t *testing.T) {
	dir := t.TempDir()

	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Add("atlas-master", "node", "server", 0.8); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	reloaded, err := New(dir)
	if err != nil {
		t.Fatalf("New() (reload) error = %v", err)
	}
	got := reloaded.List("atlas-master")
	if len(got) != 1 || got[0].Word != "node" || got[0].Synonym != "server" {
		t.Fatalf("List() after reload = %+v, want one correlation node->server", got)
	}
}

func TestAddRejectsEmptyWordOrSynonym(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, err := s.Add("atlas-master", "", "server", 0.8); err == nil {
		t.Error("Add() with empty word: want error, got nil")
	}
	if _, err := s.Add("atlas-master", "node", "", 0.8); err == nil {
		t.Error("Add() with empty synonym: want error, got nil")
	}
}

func TestListScopesByPropertyAndIncludesGlobal(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Add("atlas-master", "node", "server", 0.8)
	s.Add("compass-master", "gui", "ui", 0.7)
	s.Add("", "db", "database", 0.9)

	got := s.List("atlas-master")
	if len(got) != 2 {
		t.Fatalf("List(atlas-master) = %d entries, want 2 (scoped + global)", len(got))
	}

	all := s.List("")
	if len(all) != 3 {
		t.Fatalf("List(\"\") = %d entries, want 3", len(all))
	}
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	c, err := s.Add("atlas-master", "node", "server", 0.8)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := s.Delete(c.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(s.List("atlas-master")) != 0 {
		t.Error("List() after Delete() still reports the correlation")
	}

	reloaded, err := New(dir)
	if err != nil {
		t.Fatalf("New() (reload) error = %v", err)
	}
	if len(reloaded.List("atlas-master")) != 0 {
		t.Error("correlation reappeared after reload following Delete()")
	}
}

func TestDeleteUnknownIDFails(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Delete("missing"); err == nil {
		t.Error("Delete() on unknown id: want error, got nil")
	}
}

func TestApplyReplaysScopedAndGlobalCorrelationsOntoIndexer(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	s.Add("atlas-master", "node", "server", 0.8)
	s.Add("compass-master", "gui", "ui", 0.7)
	s.Add("", "db", "database", 0.9)

	idx := &fakeIndexer{}
	s.Apply(idx, "atlas-master")

	if len(idx.calls) != 2 {
		t.Fatalf("Apply() invoked CorrelateWord %d times, want 2", len(idx.calls))
	}
}
