// Package prompt builds the system and user prompts sent to the LLM. Build is
// deterministic: the same Input always yields byte-identical prompts.
package prompt

import (
	"fmt"

	"repurpose/internal/model"
)

// Input is everything the prompts depend on.
type Input struct {
	Platform     model.Platform
	Tone         model.Tone
	ThreadLength int
	Niche        string
	Title        string
	Content      string
}

// Build returns the system and user prompts for in.
func Build(in Input) (system, user string) {
	return System(in.Platform, in.Tone, in.ThreadLength, in.Niche), User(in.Platform, in.Title, in.Content)
}

// System assembles the platform rules with the tone and niche instructions.
// threadLength only affects twitter.
func System(platform model.Platform, tone model.Tone, threadLength int, niche string) string {
	voice := toneInstruction(tone) + nicheInstruction(niche)

	switch platform {
	case model.PlatformTwitter:
		return fmt.Sprintf(`You are an elite ghostwriter for viral Twitter threads.

RULES:
- Each tweet under 280 characters
- Use "1/" "2/" numbering
- First tweet = HOOK with curiosity gap
- Last tweet = CTA + summary
- Use line breaks and → bullets

STRUCTURE (%d tweets):
1: Pattern interrupt hook
2-%d: One insight per tweet
%d: Takeaway + CTA

%s

Write actual tweets, ready to post.`, threadLength, threadLength-1, threadLength, voice)

	case model.PlatformLinkedIn:
		return fmt.Sprintf(`You are a LinkedIn content strategist for viral posts.

RULES:
- Hook line under 100 chars (shows before "see more")
- Single-sentence paragraphs
- 1-3 emojis total
- Hashtags only at end (3-5)
- 1200-1500 characters total

STRUCTURE:
- Line 1: Hook that demands click
- Setup: Bridge to story
- Body: Actionable value
- Close: Question for comments

%s

Write actual post, ready to publish.`, voice)

	default:
		return fmt.Sprintf(`You are a Threads content creator.

RULES:
- 500 char limit per post
- Single post or short thread (3-5)
- No hashtags
- Conversational tone

%s

Write actual post(s), ready to publish.`, voice)
	}
}

// User wraps the extracted article in the generation instruction.
func User(platform model.Platform, title, content string) string {
	return fmt.Sprintf(`Transform into a %s:

TITLE: %s

CONTENT:
%s

---
Generate now. Ready to copy-paste.`, Label(platform), title, content)
}

// Label is the human name of the post format for platform.
func Label(platform model.Platform) string {
	switch platform {
	case model.PlatformTwitter:
		return "Twitter thread"
	case model.PlatformLinkedIn:
		return "LinkedIn post"
	default:
		return "Threads post"
	}
}

func toneInstruction(tone model.Tone) string {
	switch tone {
	case model.ToneCasual:
		return "TONE: Casual and conversational. Like talking to a smart friend."
	case model.ToneProvocative:
		return "TONE: Provocative and bold. Challenge conventional wisdom."
	case model.ToneEducational:
		return "TONE: Educational and helpful. Break down complex ideas clearly."
	default:
		return "TONE: Professional but not boring. Credible, insightful, human."
	}
}

func nicheInstruction(niche string) string {
	if niche == "" {
		return ""
	}
	return fmt.Sprintf("\nNICHE: Content is for %s. Use their terminology.", niche)
}
