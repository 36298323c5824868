package index

import (
	"testing"

	"github.com/mongodb/marian/config"
	"github.com/mongodb/marian/internal/query"
	"github.com/mongodb/marian/model"
)

func testSettings() config.RankerSettings {
	var rs config.RankerSettings
	rs.ApplyDefaults()
	return rs
}

func newTestIndex() *FTSIndex {
	return New(config.DefaultFieldWeights(), testSettings())
}

func TestAddAssignsDenseIDs(t *testing.T) {
	fi := newTestIndex()
	id0 := fi.Add(model.Document{Text: "first document"})
	id1 := fi.Add(model.Document{Text: "second document"})

	if id0 != 0 || id1 != 1 {
		t.Errorf("ids = %d, %d; want 0, 1", id0, id1)
	}
	if fi.Len() != 2 {
		t.Errorf("Len() = %d, want 2", fi.Len())
	}
}

func TestSearchFindsMatchingDocument(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Title: "Connecting to Atlas", Text: "how to connect your cluster"})
	fi.Finalize()

	q := query.Parse("atlas")
	matches := fi.Search(q, false)

	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].RelevancyScore <= 0 {
		t.Errorf("RelevancyScore = %v, want positive", matches[0].RelevancyScore)
	}
}

func TestSearchRespectsFilter(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{SearchProperty: "atlas-master", Text: "atlas cluster setup"})
	fi.Add(model.Document{SearchProperty: "compass-master", Text: "atlas cluster setup"})
	fi.Finalize()

	q := query.Parse("atlas")
	q.Filter = func(docID int) bool {
		doc, _ := fi.Document(docID)
		return doc.SearchProperty == "compass-master"
	}

	matches := fi.Search(q, false)
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	doc, _ := fi.Document(matches[0].DocID)
	if doc.SearchProperty != "compass-master" {
		t.Errorf("matched doc has SearchProperty %q, want compass-master", doc.SearchProperty)
	}
}

func TestSearchHonorsPhraseFilter(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Text: "you can connect via dialog in the UI"})
	fi.Add(model.Document{Text: "dialog boxes sometimes connect badly"})
	fi.Finalize()

	q := query.Parse(`"connect via dialog"`)
	matches := fi.Search(q, false)

	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1 (only the doc with the exact phrase)", len(matches))
	}
	doc, _ := fi.Document(matches[0].DocID)
	if doc.Text != "you can connect via dialog in the UI" {
		t.Errorf("matched wrong document: %q", doc.Text)
	}
}

func TestSearchNoMatchesReturnsEmpty(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Text: "nothing relevant here"})
	fi.Finalize()

	q := query.Parse("zzzznonexistent")
	matches := fi.Search(q, false)
	if len(matches) != 0 {
		t.Errorf("len(matches) = %d, want 0", len(matches))
	}
}

func TestCorrelationsAreMonotonic(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Text: "information about clusters and nodes"})
	fi.Finalize()

	before := fi.Search(query.Parse("nodes"), false)
	if len(before) == 0 {
		t.Fatal("expected a match for \"nodes\" before any correlation")
	}
	beforeScore := before[0].RelevancyScore

	fi.CorrelateWord("nodes", "clusters", 0.8)

	after := fi.Search(query.Parse("nodes"), false)
	if len(after) == 0 {
		t.Fatal("expected a match for \"nodes\" after correlating in \"clusters\"")
	}
	afterScore := after[0].RelevancyScore

	if afterScore < beforeScore {
		t.Errorf("RelevancyScore after correlation = %v, want >= pre-correlation score %v", afterScore, beforeScore)
	}
}

func TestSigilTokenIndexedVerbatimAndCorrelated(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Text: "set the $max value carefully"})
	fi.Finalize()

	verbatim := fi.Search(query.Parse("$max"), false)
	if len(verbatim) != 1 {
		t.Fatalf("verbatim sigil search: len = %d, want 1", len(verbatim))
	}

	viaCorrelation := fi.Search(query.Parse("max"), false)
	if len(viaCorrelation) != 1 {
		t.Fatalf("correlated sigil search: len = %d, want 1", len(viaCorrelation))
	}
}

func TestTermsReturnsIndexedVocabulary(t *testing.T) {
	fi := newTestIndex()
	fi.Add(model.Document{Text: "atlas cluster"})
	fi.Finalize()

	terms := fi.Terms()
	found := make(map[string]bool, len(terms))
	for _, term := range terms {
		found[term] = true
	}
	if !found["atlas"] || !found["cluster"] {
		t.Errorf("Terms() = %v, want to contain atlas and cluster", terms)
	}
}

func TestFieldWeightBoostsTitleOverText(t *testing.T) {
	fi := newTestIndex()
	titleDoc := fi.Add(model.Document{Title: "realm sync guide", Text: "unrelated filler content padding out the body"})
	textDoc := fi.Add(model.Document{Title: "unrelated", Text: "realm sync guide unrelated filler content padding out the body"})
	fi.Finalize()

	matches := fi.Search(query.Parse("realm"), false)
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}

	scores := make(map[int]float64, 2)
	for _, m := range matches {
		scores[m.DocID] = m.RelevancyScore
	}
	if scores[titleDoc] <= scores[textDoc] {
		t.Errorf("title-field match (%v) should outscore text-field match (%v)", scores[titleDoc], scores[textDoc])
	}
}
