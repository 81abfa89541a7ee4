package model

import "time"

// Platform is the social network a post is written for.
type Platform string

const (
	PlatformTwitter  Platform = "twitter"
	PlatformLinkedIn Platform = "linkedin"
	PlatformThreads  Platform = "threads"
)

// ParsePlatform maps a raw value to a Platform. Anything that is not twitter or
// linkedin is written as a Threads post.
func ParsePlatform(s string) Platform {
	switch Platform(s) {
	case PlatformTwitter:
		return PlatformTwitter
	case PlatformLinkedIn:
		return PlatformLinkedIn
	default:
		return PlatformThreads
	}
}

// Tone is the writing voice requested for a post.
type Tone string

const (
	ToneProfessional Tone = "professional"
	ToneCasual       Tone = "casual"
	ToneProvocative  Tone = "provocative"
	ToneEducational  Tone = "educational"
)

// Tones lists every recognised tone in display order.
var Tones = []Tone{ToneProfessional, ToneCasual, ToneProvocative, ToneEducational}

// ParseTone returns the Tone for s. An empty value selects professional.
func ParseTone(s string) (Tone, bool) {
	if s == "" {
		return ToneProfessional, true
	}
	for _, t := range Tones {
		if Tone(s) == t {
			return t, true
		}
	}
	return "", false
}

const (
	DefaultThreadLength = 5
	MinThreadLength     = 3
	MaxThreadLength     = 15
)

// GenerationRequest is one request to turn an article into a post.
type GenerationRequest struct {
	URL          string
	Platform     string
	Tone         string
	ThreadLength int
	Niche        string
	Identity     string
	IsPro        bool
}

// GenerationMeta describes the article a post was generated from.
type GenerationMeta struct {
	Title     string `json:"title"`
	WordCount int    `json:"wordCount"`
}

// GenerationResult is the outcome of a successful generation. Usage is nil for
// pro identities.
type GenerationResult struct {
	Output string         `json:"output"`
	Meta   GenerationMeta `json:"meta"`
	Usage  *UsageSnapshot `json:"usage"`
}

// GenerationEvent is published after every successful generation.
type GenerationEvent struct {
	Identity    string    `json:"identity"`
	Platform    Platform  `json:"platform"`
	Tone        Tone      `json:"tone"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	WordCount   int       `json:"word_count"`
	IsPro       bool      `json:"is_pro"`
	Used        int       `json:"used,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
}
