package draft

import (
	"fmt"
	"strings"
)

const systemPrompt = `You help build picture-word catalogs for young children learning Nepali.

Rules:
- For every English word given, return the word a Nepali parent would say to a toddler while pointing at a picture.
- Write "nepali" in Devanagari script only. One or two words, no punctuation, no articles.
- Prefer the common spoken word over a formal or Sanskrit-derived one.
- Write "romanized" in lowercase ASCII letters, as the word sounds, with no diacritics.
- Return "english" exactly as given so answers can be matched to requests.
- Never reuse a Nepali word from the "already in the catalog" list.`

// buildUserMessage lists the batch and the words the catalog already has.
func buildUserMessage(words []string, tag string, taken []string) string {
	var b strings.Builder
	if tag != "" {
		fmt.Fprintf(&b, "Category: %s\n\n", tag)
	}
	b.WriteString("Translate these words:\n")
	for _, w := range words {
		fmt.Fprintf(&b, "- %s\n", w)
	}
	b.WriteString("\nAlready in the catalog:\n")
	if len(taken) == 0 {
		b.WriteString("None\n")
	} else {
		b.WriteString(strings.Join(taken, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
