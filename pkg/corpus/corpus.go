// Package corpus discovers and loads agent definition files from configured
// corpus roots. A corpus root is a directory of Markdown agent definitions,
// optionally grouped one level deep into category folders (orchestrators,
// language-experts, ...). Category folders are organizational only.
package corpus

import (
	"sort"

	"github.com/agentdex/agentdex/pkg/agent"
)

// InvalidFile records a file that looked like an agent definition but failed
// to parse. Discovery keeps going so lint can report every broken file in
// one pass.
type InvalidFile struct {
	Path string
	Err  error
}

// Corpus is the loaded set of agent definitions from all configured roots.
type Corpus struct {
	Agents  []*agent.Agent
	Invalid []InvalidFile

	byName map[string][]*agent.Agent
}

// New builds a Corpus from loaded agents. Agents keep discovery order; the
// first agent loaded under a given name is the canonical one.
func New(agents []*agent.Agent, invalid []InvalidFile) *Corpus {
	c := &Corpus{
		Agents:  agents,
		Invalid: invalid,
		byName:  make(map[string][]*agent.Agent),
	}
	for _, a := range agents {
		c.byName[a.Name()] = append(c.byName[a.Name()], a)
	}
	return c
}

// Get returns the canonical agent for a name.
func (c *Corpus) Get(name string) (*agent.Agent, bool) {
	agents, ok := c.byName[name]
	if !ok || len(agents) == 0 {
		return nil, false
	}
	return agents[0], true
}

// Names returns all canonical agent names sorted alphabetically.
func (c *Corpus) Names() []string {
	names := make([]string, 0, len(c.byName))
	for name := range c.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Categories returns the distinct categories present in the corpus, sorted.
// Root-level agents contribute the empty category, which is omitted.
func (c *Corpus) Categories() []string {
	seen := make(map[string]bool)
	for _, a := range c.Agents {
		if a.Category != "" {
			seen[a.Category] = true
		}
	}
	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	return categories
}

// Duplicates returns names defined by more than one file, mapped to every
// definition carrying that name in discovery order.
func (c *Corpus) Duplicates() map[string][]*agent.Agent {
	dups := make(map[string][]*agent.Agent)
	for name, agents := range c.byName {
		if len(agents) > 1 {
			dups[name] = agents
		}
	}
	return dups
}

// Len returns the number of parsed agents in the corpus.
func (c *Corpus) Len() int {
	return len(c.Agents)
}
