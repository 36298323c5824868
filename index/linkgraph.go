package index

import "strings"

// NormalizeURL strips a trailing "/index.html" from url, per §3.
func NormalizeURL(url string) string {
	return strings.TrimSuffix(url, "/index.html")
}

// LinkGraph holds the URL<->id mapping and the outgoing/incoming adjacency
// between documents (§3, §9 Design Notes). Outgoing/incoming links are
// accumulated by URL during construction (a document's links may name URLs
// not yet added) and resolved into dense id-sets once the whole corpus has
// been added, so HITS never has to dereference a URL at query time.
type LinkGraph struct {
	urlToID map[string]int
	idToURL map[int]string

	outgoingByURL map[string]map[string]struct{}
	incomingByURL map[string]map[string]struct{}

	outgoing map[int]map[int]struct{}
	incoming map[int]map[int]struct{}
}

func newLinkGraph() *LinkGraph {
	return &LinkGraph{
		urlToID:       make(map[string]int),
		idToURL:       make(map[int]string),
		outgoingByURL: make(map[string]map[string]struct{}),
		incomingByURL: make(map[string]map[string]struct{}),
	}
}

// AddDocument registers id's URL and its outgoing links. Finalize must be
// called once the whole corpus has been added before Outgoing/Incoming are
// queried.
func (lg *LinkGraph) AddDocument(id int, url string, links []string) {
	if url == "" {
		return
	}
	url = NormalizeURL(url)
	lg.urlToID[url] = id
	lg.idToURL[id] = url

	for _, link := range links {
		link = NormalizeURL(link)
		if link == "" {
			continue
		}
		if lg.outgoingByURL[url] == nil {
			lg.outgoingByURL[url] = make(map[string]struct{})
		}
		lg.outgoingByURL[url][link] = struct{}{}

		if lg.incomingByURL[link] == nil {
			lg.incomingByURL[link] = make(map[string]struct{})
		}
		lg.incomingByURL[link][url] = struct{}{}
	}
}

// Finalize resolves the URL-keyed adjacency into doc-id-keyed adjacency.
// Links to URLs outside the index (not assigned an id) are dropped.
func (lg *LinkGraph) Finalize() {
	lg.outgoing = resolveAdjacency(lg.outgoingByURL, lg.urlToID)
	lg.incoming = resolveAdjacency(lg.incomingByURL, lg.urlToID)
}

func resolveAdjacency(byURL map[string]map[string]struct{}, urlToID map[string]int) map[int]map[int]struct{} {
	resolved := make(map[int]map[int]struct{}, len(byURL))
	for url, targets := range byURL {
		id, ok := urlToID[url]
		if !ok {
			continue
		}
		set := make(map[int]struct{}, len(targets))
		for target := range targets {
			tid, ok := urlToID[target]
			if !ok {
				continue
			}
			set[tid] = struct{}{}
		}
		if len(set) > 0 {
			resolved[id] = set
		}
	}
	return resolved
}

// Outgoing returns the set of document ids id links to.
func (lg *LinkGraph) Outgoing(id int) map[int]struct{} {
	return lg.outgoing[id]
}

// Incoming returns the set of document ids that link to id.
func (lg *LinkGraph) Incoming(id int) map[int]struct{} {
	return lg.incoming[id]
}

// OutgoingAdjacency and IncomingAdjacency expose the full resolved
// adjacency, for passing to ranking.ApplyHITS.
func (lg *LinkGraph) OutgoingAdjacency() map[int]map[int]struct{} {
	return lg.outgoing
}

func (lg *LinkGraph) IncomingAdjacency() map[int]map[int]struct{} {
	return lg.incoming
}

// IDForURL returns the document id registered for url, if any.
func (lg *LinkGraph) IDForURL(url string) (int, bool) {
	id, ok := lg.urlToID[NormalizeURL(url)]
	return id, ok
}
