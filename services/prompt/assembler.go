// Package prompt renders retrieved context and a question into a generation
// request. Pure and deterministic: same inputs, same prompt.
package prompt

import (
	"fmt"
	"strings"
)

// TemplateVersion identifies the instruction policy baked into the template.
// Changing the template changes answer behavior for every tenant, so any edit
// must bump this version and be treated as a breaking change.
const TemplateVersion = "v1"

// template carries the fixed instruction policy: answer only from the
// supplied context, in Indonesian, briefly and directly.
const template = `Answer the question based only on the following context.

Context:
%s

Question:
%s

Instruction:
- Answer briefly, clearly, and directly with Indonesian language.
- Use only information from the context.
`

// Assemble renders the generation prompt. An empty context is rendered as-is;
// the instruction policy makes the model answer that no information was found
// rather than this code special-casing it.
func Assemble(contextText, question string) string {
	return fmt.Sprintf(template, contextText, question)
}

// JoinContext concatenates document contents best-first with a blank line
// between documents. Order matters: the generation provider weighs earlier
// context more heavily.
func JoinContext(contents []string) string {
	return strings.Join(contents, "\n\n")
}
