package transform

import (
	"fmt"

	"github.com/sqlrefine/sqlrefine/ast"
	"github.com/sqlrefine/sqlrefine/collector"
	"github.com/sqlrefine/sqlrefine/format"
)

// CTEEntry is one piece of a decomposed query: either a named CTE body or
// the root query (Name == "").
type CTEEntry struct {
	Name         string
	Query        ast.Node
	Dependencies []string
	Recursive    bool
}

// Decompose splits query's WITH clause (if any) and its own body into
// independent CTEEntry values, each with its leading WITH stripped and
// its dependencies on sibling entries recorded by name.
func Decompose(query ast.Node) ([]CTEEntry, error) {
	sel, ok := query.(*ast.SimpleSelect)
	if !ok {
		return nil, fmt.Errorf("transform: Decompose requires a SimpleSelect root, got %T", query)
	}

	var entries []CTEEntry
	wc := sel.With
	if wc != nil {
		for _, ct := range wc.Tables {
			entries = append(entries, CTEEntry{
				Name:         ct.Name,
				Query:        ct.Query,
				Dependencies: dependencyNames(ct.Query, wc),
				Recursive:    wc.Recursive,
			})
		}
	}

	rootCopy := *sel
	rootCopy.With = nil
	entries = append(entries, CTEEntry{
		Name:         "",
		Query:        &rootCopy,
		Dependencies: dependencyNames(&rootCopy, wc),
	})
	return entries, nil
}

func dependencyNames(q ast.Node, wc *ast.WithClause) []string {
	if wc == nil {
		return nil
	}
	names := map[string]bool{}
	for _, ct := range wc.Tables {
		names[lower(ct.Name)] = true
	}
	var deps []string
	seen := map[string]bool{}
	for _, ts := range collector.CollectTableSources(q, false) {
		n := lower(ts.Name.Name)
		if names[n] && !seen[n] {
			seen[n] = true
			deps = append(deps, ts.Name.Name)
		}
	}
	return deps
}

// Compose rebuilds one query from entries: stale leading
// WITH clauses (ones that only redefine names already present in the
// composition) are stripped from their entry's query; a nested WITH that
// introduces genuinely fresh names is left alone. Named entries are
// topologically sorted by Dependencies, recursion is detected from any
// entry's Recursive flag, and the result carries WITH RECURSIVE only when
// needed.
func Compose(entries []CTEEntry) (ast.Node, error) {
	var root *CTEEntry
	named := map[string]*CTEEntry{}
	known := map[string]bool{}
	for i := range entries {
		if entries[i].Name == "" {
			root = &entries[i]
		} else {
			named[lower(entries[i].Name)] = &entries[i]
			known[lower(entries[i].Name)] = true
		}
	}
	if root == nil {
		return nil, fmt.Errorf("transform: Compose requires exactly one entry with empty Name (the root query)")
	}

	for i := range entries {
		stripStaleWith(&entries[i], known)
	}

	order, recursive, err := topoSortEntries(entries, named)
	if err != nil {
		return nil, err
	}

	var wc *ast.WithClause
	if len(order) > 0 {
		wc = ast.NewWithClause()
		wc.Recursive = recursive
		for _, name := range order {
			e := named[lower(name)]
			wc.Tables = append(wc.Tables, ast.NewCommonTable(e.Name, e.Query))
		}
	}

	rootSel, ok := root.Query.(*ast.SimpleSelect)
	if !ok {
		return nil, fmt.Errorf("transform: Compose root entry must be a SimpleSelect, got %T", root.Query)
	}
	if wc != nil {
		rootSel.With = wc
	}
	return rootSel, nil
}

func stripStaleWith(e *CTEEntry, known map[string]bool) {
	sel, ok := e.Query.(*ast.SimpleSelect)
	if !ok || sel.With == nil {
		return
	}
	for _, ct := range sel.With.Tables {
		if !known[lower(ct.Name)] {
			return
		}
	}
	sel.With = nil
}

func topoSortEntries(entries []CTEEntry, named map[string]*CTEEntry) ([]string, bool, error) {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := map[string]int{}
	var order []string
	recursive := false

	var visit func(name string)
	visit = func(name string) {
		key := lower(name)
		switch state[key] {
		case done:
			return
		case visiting:
			recursive = true
			return
		}
		state[key] = visiting
		if e := named[key]; e != nil {
			if e.Recursive {
				recursive = true
			}
			for _, dep := range e.Dependencies {
				if named[lower(dep)] != nil {
					visit(dep)
				}
			}
			order = append(order, e.Name)
		}
		state[key] = done
	}

	for _, e := range entries {
		if e.Name != "" {
			visit(e.Name)
		}
	}
	return order, recursive, nil
}

// ComposeFormat composes entries and formats the result text directly,
// forcing WithClauseStyle to cte-oneline regardless of what baseOpts
// otherwise specifies: the composer always renders each CTE body on one
// line, independent of whatever style the caller's base options use.
func ComposeFormat(entries []CTEEntry, baseOpts format.Options) (string, error) {
	node, err := Compose(entries)
	if err != nil {
		return "", err
	}
	opts := baseOpts
	opts.WithClauseStyle = format.WithCTEOneline
	return format.Format(node, opts), nil
}
