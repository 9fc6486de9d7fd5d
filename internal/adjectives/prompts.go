package adjectives

import "fmt"

// prompts maps a matched adjective to its conversation starter. Adjectives
// without a curated entry fall through to the generic template below.
var prompts = map[string]string{
	"Kind":        "You both see kindness in each other! Share a moment when someone's kindness changed your day.",
	"Funny":       "You both crack each other up! What's the last thing that made you laugh until it hurt?",
	"Smart":       "You both admire each other's minds! What's a topic you could talk about for hours?",
	"Creative":    "You both spark creativity! What's something you've made that you're proud of?",
	"Honest":      "You both value honesty! What's an unpopular opinion you'll happily defend?",
	"Caring":      "You both have caring hearts! Who's someone you always look out for?",
	"Thoughtful":  "You both notice the little things! What's the most thoughtful gift you've ever given?",
	"Genuine":     "You both keep it real! What's something people are often surprised to learn about you?",
	"Curious":     "You both love to wonder! What's a question you've been chewing on lately?",
	"Adventurous": "You both chase adventure! What's the boldest thing on your bucket list?",
	"Passionate":  "You both burn bright! What's something you could never give up?",
	"Warm":        "You both radiate warmth! What's your favorite way to make someone feel at home?",
}

// PromptFor returns the ice-breaking prompt for a matched adjective.
// Deterministic, no side effects.
func PromptFor(adjective string) string {
	if p, ok := prompts[adjective]; ok {
		return p
	}
	return fmt.Sprintf("You both find each other %s! What's something you'd like to know about each other?", adjective)
}
