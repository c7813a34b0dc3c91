package prompt

import (
	"fmt"
	"strings"
)

// Reflection is the instruction sent with every entry when the caller supplies none.
const Reflection = `Reflect deeply on the user's journal entry, focusing on their specific emotions, experiences, and challenges.
Relate their situation to the teachings of the Bhagavad Gita, using concepts such as dharma (duty), karma (selfless action), detachment, balance, and equanimity. The goal is to connect the Gita's wisdom to the user's particular context in a way that feels personal and practical.

Start by acknowledging the user's experience in detail. Highlight specific aspects of what they shared to show understanding. Then, relate these details to relevant verses from the Gita and their philosophical insights. Finally, offer guidance or suggestions tailored to their situation, ensuring it resonates with their entry.

Avoid generalized advice; instead, directly address the user's reflections and show how the teachings can illuminate their path forward. Focus on how the Gita can provide clarity or comfort in their unique moment.`

// GetUserPrompt wraps the instruction around the entry title and body.
// A blank instruction falls back to Reflection.
func GetUserPrompt(instruction, title, content string) string {
	if strings.TrimSpace(instruction) == "" {
		instruction = Reflection
	}
	return fmt.Sprintf("%s\n\nNow, based on these guidelines, respond to the following journal entry:\n\nTitle: %s\nEntry: %s",
		strings.TrimSpace(instruction), title, content)
}
