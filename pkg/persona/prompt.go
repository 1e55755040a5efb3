package persona

import (
	"fmt"
	"strings"
)

// BuildPrompt asks the model to answer question in the persona's voice. When
// considerIdea is set, the question is framed around idea (the notepad
// content, referred to as the "Innovation dock").
func BuildPrompt(p Persona, question, idea string, considerIdea bool) string {
	intro := strings.Join([]string{
		fmt.Sprintf("You are a persona named %s.", p.Name),
		fmt.Sprintf("Your role is: %s.", p.Role),
		fmt.Sprintf("You speak in a %s tone and specialize in %s.", p.Tone, strings.Join(p.DomainExpertise, ", ")),
		fmt.Sprintf("You communicate in a %s style and prioritize %s.", p.CommunicationStyle, strings.Join(p.Values, ", ")),
		fmt.Sprintf("You avoid: %s.", strings.Join(p.Constraints, ", ")),
		fmt.Sprintf("Here are some example phrases you use: %s.", strings.Join(p.ExamplePhrases, " | ")),
	}, "\n")

	framing := ""
	if considerIdea {
		framing = fmt.Sprintf(" on this %s composed", idea)
	}
	context := strings.Join([]string{
		"Respond to the following question in your unique voice:",
		fmt.Sprintf("Question: %s%s.", question, framing),
		fmt.Sprintf(`If the prompt refers to "Innovation dock", that means %s. Respond with a creative and engaging perspective.`, idea),
		"The audience are tech professionals and Product Owners.",
	}, "\n")

	return strings.TrimSpace(intro + "\n\n" + context)
}
