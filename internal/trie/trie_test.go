package trie

import (
	"reflect"
	"testing"
)

func docSets(ids ...int) map[int]struct{} {
	set := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func hitIDs(result map[int]map[string]struct{}) map[int]struct{} {
	ids := make(map[int]struct{}, len(result))
	for id := range result {
		ids[id] = struct{}{}
	}
	return ids
}

func TestTrieExactSearch(t *testing.T) {
	tr := New()
	tr.Insert("cat", 1)
	tr.Insert("catalog", 2)
	tr.Insert("car", 3)

	got := tr.Search("cat", false)
	want := map[int]map[string]struct{}{
		1: {"cat": struct{}{}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search(cat, false) = %v, want %v", got, want)
	}
}

func TestTriePrefixSearchIsSuperset(t *testing.T) {
	tr := New()
	tr.Insert("cat", 1)
	tr.Insert("catalog", 2)
	tr.Insert("catapult", 3)
	tr.Insert("car", 4)

	exact := tr.Search("cat", false)
	prefix := tr.Search("cat", true)

	if !reflect.DeepEqual(hitIDs(exact), docSets(1)) {
		t.Fatalf("exact hits = %v, want {1}", hitIDs(exact))
	}
	if !reflect.DeepEqual(hitIDs(prefix), docSets(1, 2, 3)) {
		t.Fatalf("prefix hits = %v, want {1,2,3}", hitIDs(prefix))
	}
	for id := range exact {
		if _, ok := prefix[id]; !ok {
			t.Errorf("prefix search missing exact hit %d", id)
		}
	}

	if tokens := prefix[2]; !reflect.DeepEqual(tokens, map[string]struct{}{"catalog": {}}) {
		t.Errorf("prefix[2] = %v, want {catalog}", tokens)
	}
}

func TestTrieSearchUnknownToken(t *testing.T) {
	tr := New()
	tr.Insert("cat", 1)

	got := tr.Search("dog", true)
	if len(got) != 0 {
		t.Errorf("Search(dog, true) = %v, want empty", got)
	}
}

func TestTrieInsertIsIdempotent(t *testing.T) {
	once := New()
	once.Insert("search", 7)

	twice := New()
	twice.Insert("search", 7)
	twice.Insert("search", 7)

	if !reflect.DeepEqual(once.Search("search", false), twice.Search("search", false)) {
		t.Errorf("double insert changed search result")
	}
}

func TestTrieRemove(t *testing.T) {
	tr := New()
	tr.Insert("cat", 1)
	tr.Insert("cat", 2)

	tr.Remove("cat", 1)
	got := tr.Search("cat", false)
	want := map[int]map[string]struct{}{2: {"cat": {}}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after Remove(cat,1): Search = %v, want %v", got, want)
	}

	tr.Remove("cat", 2)
	if got := tr.Search("cat", false); len(got) != 0 {
		t.Errorf("after removing all ids: Search = %v, want empty", got)
	}

	tr.Remove("missing", 9)
}
