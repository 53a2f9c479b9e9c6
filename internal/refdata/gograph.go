// Copyright ©2020 Dan Kortschak. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package refdata

import (
	"bufio"
	"io"
	"strings"

	"gonum.org/v1/gonum/graph/simple"

	"github.com/harta55/entap/internal/model"
)

// GoGraph is the Gene Ontology DAG, modeled as a directed graph (term ->
// parent) using gonum/graph, the same library the reference implementation
// uses in cmd/cmpint/main.go to model repeat-disagreement graphs. Term
// levels (root distance, /P5) are computed once by breadth-first traversal
// from the three namespace roots rather than trusted to the input file,
// since the reference format does not guarantee levels are present or
// consistent.
type GoGraph struct {
	g      *simple.DirectedGraph
	idFor  map[string]int64
	terms  map[string]goNode
	levels map[string]int
}

type goNode struct {
	id    int64
	entry model.GoEntry
}

func (n goNode) ID() int64 { return n.id }

// NewGoGraph loads a tab-separated term table:
// `go_id	term	category	parent_go_id` (parent_go_id may be empty for a
// namespace root; multiple parent rows for the same go_id are accepted,
// one edge per row).
func NewGoGraph(r io.Reader) (*GoGraph, error) {
	g := &GoGraph{
		g:     simple.NewDirectedGraph(),
		idFor: make(map[string]int64),
		terms: make(map[string]goNode),
	}

	type parentEdge struct{ child, parent string }
	var edges []parentEdge

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		line := sc.Text()
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 3 {
			continue
		}
		entry := model.GoEntry{GoID: fields[0], Term: fields[1], Category: parseCategory(fields[2]), Level: model.LevelUnknown}
		g.addTerm(entry)
		if len(fields) >= 4 && fields[3] != "" {
			edges = append(edges, parentEdge{child: fields[0], parent: fields[3]})
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	for _, e := range edges {
		child, ok1 := g.terms[e.child]
		parent, ok2 := g.terms[e.parent]
		if !ok1 || !ok2 {
			continue
		}
		if !g.g.HasEdgeBetween(child.id, parent.id) {
			g.g.SetEdge(g.g.NewEdge(child, parent))
		}
	}

	g.computeLevels()
	return g, nil
}

func parseCategory(s string) model.GoCategory {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "biological_process", "biological":
		return model.GoCategoryBiological
	case "cellular_component", "cellular":
		return model.GoCategoryCellular
	case "molecular_function", "molecular":
		return model.GoCategoryMolecular
	default:
		return model.GoCategoryUnknown
	}
}

func (g *GoGraph) addTerm(entry model.GoEntry) {
	if _, ok := g.terms[entry.GoID]; ok {
		return
	}
	id := int64(len(g.idFor))
	g.idFor[entry.GoID] = id
	n := goNode{id: id, entry: entry}
	g.terms[entry.GoID] = n
	g.g.AddNode(n)
}

// computeLevels runs a breadth-first traversal from every root (a term with
// no outgoing edge, i.e. no parent) over the reversed (parent -> child)
// adjacency, assigning each reachable term its shortest distance from a
// root. Terms unreachable from any root keep model.LevelUnknown, which
// treats as always matching any requested filter level.
func (g *GoGraph) computeLevels() {
	g.levels = make(map[string]int, len(g.terms))
	idToGoID := make(map[int64]string, len(g.terms))
	for goID, n := range g.terms {
		idToGoID[n.id] = goID
	}

	var queue []int64
	for _, n := range g.terms {
		if g.g.From(n.id).Len() == 0 {
			g.levels[n.entry.GoID] = 0
			queue = append(queue, n.id)
		}
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		goID := idToGoID[id]
		depth := g.levels[goID]

		// Children are nodes with an edge pointing to id (child -> parent).
		to := g.g.To(id)
		for to.Next() {
			child := to.Node()
			childGoID := idToGoID[child.ID()]
			if cur, ok := g.levels[childGoID]; !ok || depth+1 < cur {
				g.levels[childGoID] = depth + 1
				queue = append(queue, child.ID())
			}
		}
	}
}

// GoEntry resolves id to its term, with the level computed by computeLevels
// (`go_entry(go_id) -> GoEntry?`).
func (g *GoGraph) GoEntry(id string) (model.GoEntry, bool) {
	n, ok := g.terms[id]
	if !ok {
		return model.GoEntry{}, false
	}
	entry := n.entry
	if lvl, ok := g.levels[id]; ok {
		entry.Level = lvl
	}
	return entry, true
}

// FormatGoDelim tokenises a delimiter-separated id list from a tool's output
// and resolves each to a GoEntry, dropping ids not found in the graph
// (`format_go_delim(ids, delim) -> set<GoEntry>`).
func (g *GoGraph) FormatGoDelim(ids, delim string) []model.GoEntry {
	var out []model.GoEntry
	for _, raw := range strings.Split(ids, delim) {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		if e, ok := g.GoEntry(id); ok {
			out = append(out, e)
		}
	}
	return out
}
