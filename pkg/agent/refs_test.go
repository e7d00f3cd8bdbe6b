package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferences(t *testing.T) {
	t.Run("prose and table mentions", func(t *testing.T) {
		a := &Agent{Body: `Delegate frontend work to @react-specialist when needed.

| Task | Delegate to |
|------|-------------|
| API design | @api-designer |
| Security review | @security-auditor |
`}

		refs := a.References()
		names := make([]string, len(refs))
		for i, ref := range refs {
			names[i] = ref.Name
		}
		assert.Equal(t, []string{"react-specialist", "api-designer", "security-auditor"}, names)
		assert.Equal(t, 1, refs[0].Line)
		assert.Equal(t, 5, refs[1].Line)
	})

	t.Run("code fences are ignored", func(t *testing.T) {
		a := &Agent{Body: "Use @real-agent here.\n\n```go\n// mention of @fake-agent in a snippet\n```\n\nAnd @another-agent after.\n"}
		assert.Equal(t, []string{"real-agent", "another-agent"}, a.ReferenceNames())
	})

	t.Run("inline code is ignored", func(t *testing.T) {
		a := &Agent{Body: "The syntax is `@agent-name` but delegate to @rust-pro.\n"}
		assert.Equal(t, []string{"rust-pro"}, a.ReferenceNames())
	})

	t.Run("email addresses do not match", func(t *testing.T) {
		a := &Agent{Body: "Contact ops@example.com or delegate to @deploy-bot.\n"}
		assert.Equal(t, []string{"deploy-bot"}, a.ReferenceNames())
	})

	t.Run("duplicates deduplicated in order", func(t *testing.T) {
		a := &Agent{Body: "@first then @second then @first again.\n"}
		assert.Equal(t, []string{"first", "second"}, a.ReferenceNames())
	})

	t.Run("no references", func(t *testing.T) {
		a := &Agent{Body: "No delegation here.\n"}
		assert.Empty(t, a.References())
	})
}
