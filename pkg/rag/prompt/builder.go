package prompt

import (
	"strings"
)

// PersonaBuilder renders a fixed system prompt with a single substitution
// point for the retrieved context.
type PersonaBuilder struct {
	template    string
	placeholder string
	emptyLine   string
}

func NewPersonaBuilder(template, placeholder, emptyLine string) *PersonaBuilder {
	return &PersonaBuilder{
		template:    template,
		placeholder: placeholder,
		emptyLine:   emptyLine,
	}
}

// Build substitutes the bulleted context into the template. An empty context
// still yields a complete prompt.
func (b *PersonaBuilder) Build(contexts []string) string {
	return strings.Replace(b.template, b.placeholder, b.renderContext(contexts), 1)
}

func (b *PersonaBuilder) renderContext(contexts []string) string {
	var list strings.Builder
	for _, c := range contexts {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if list.Len() > 0 {
			list.WriteString("\n")
		}
		list.WriteString("- ")
		// keep multi-line entries inside their bullet
		list.WriteString(strings.ReplaceAll(c, "\n", "\n  "))
	}

	if list.Len() == 0 {
		return b.emptyLine
	}
	return list.String()
}
