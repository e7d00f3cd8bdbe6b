// Package graph builds the delegation graph of an agent corpus: a directed
// edge from agent A to agent B means A's body mentions @B as a delegation
// target. Delegation is advisory text for the host's orchestration, so
// cycles are reported rather than rejected.
package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agentdex/agentdex/pkg/corpus"
)

// Graph is the delegation graph of a corpus
type Graph struct {
	// Edges maps an agent name to its referenced agent names, sorted.
	// Dangling targets are excluded; lint reports those separately.
	Edges map[string][]string

	nodes []string
}

// Build constructs the delegation graph from a corpus.
func Build(c *corpus.Corpus) *Graph {
	g := &Graph{
		Edges: make(map[string][]string),
		nodes: c.Names(),
	}

	for _, name := range g.nodes {
		a, _ := c.Get(name)
		var targets []string
		for _, ref := range a.ReferenceNames() {
			if ref == name {
				continue
			}
			if _, ok := c.Get(ref); ok {
				targets = append(targets, ref)
			}
		}
		sort.Strings(targets)
		g.Edges[name] = targets
	}

	return g
}

// Nodes returns all agent names in the graph, sorted.
func (g *Graph) Nodes() []string {
	return g.nodes
}

// Orphans returns agents that no other agent delegates to.
func (g *Graph) Orphans() []string {
	referenced := make(map[string]bool)
	for _, targets := range g.Edges {
		for _, target := range targets {
			referenced[target] = true
		}
	}

	var orphans []string
	for _, name := range g.nodes {
		if !referenced[name] {
			orphans = append(orphans, name)
		}
	}
	return orphans
}

// Cycles returns delegation cycles as node paths. Each cycle is reported
// once, starting from its lexicographically smallest member.
func (g *Graph) Cycles() [][]string {
	const (
		unvisited = 0
		inStack   = 1
		done      = 2
	)

	state := make(map[string]int)
	var stack []string
	var cycles [][]string

	var visit func(name string)
	visit = func(name string) {
		state[name] = inStack
		stack = append(stack, name)

		for _, target := range g.Edges[name] {
			switch state[target] {
			case unvisited:
				visit(target)
			case inStack:
				for i, n := range stack {
					if n == target {
						cycles = append(cycles, normalizeCycle(append([]string(nil), stack[i:]...)))
						break
					}
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[name] = done
	}

	for _, name := range g.nodes {
		if state[name] == unvisited {
			visit(name)
		}
	}

	return dedupeCycles(cycles)
}

// normalizeCycle rotates a cycle so it starts at its smallest member.
func normalizeCycle(cycle []string) []string {
	smallest := 0
	for i, name := range cycle {
		if name < cycle[smallest] {
			smallest = i
		}
	}
	return append(append([]string(nil), cycle[smallest:]...), cycle[:smallest]...)
}

func dedupeCycles(cycles [][]string) [][]string {
	seen := make(map[string]bool)
	var unique [][]string
	for _, cycle := range cycles {
		key := strings.Join(cycle, "\x00")
		if !seen[key] {
			seen[key] = true
			unique = append(unique, cycle)
		}
	}
	return unique
}

// Text renders the graph as an adjacency listing.
func (g *Graph) Text() string {
	var b strings.Builder
	for _, name := range g.nodes {
		targets := g.Edges[name]
		if len(targets) == 0 {
			fmt.Fprintf(&b, "%s\n", name)
			continue
		}
		fmt.Fprintf(&b, "%s -> %s\n", name, strings.Join(targets, ", "))
	}
	return b.String()
}

// DOT renders the graph in Graphviz DOT format.
func (g *Graph) DOT() string {
	var b strings.Builder
	b.WriteString("digraph agents {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, fontname=\"monospace\"];\n")

	for _, name := range g.nodes {
		fmt.Fprintf(&b, "  %q;\n", name)
	}
	for _, name := range g.nodes {
		for _, target := range g.Edges[name] {
			fmt.Fprintf(&b, "  %q -> %q;\n", name, target)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
