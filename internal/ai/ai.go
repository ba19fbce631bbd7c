// Package ai is the boundary to the generative assistant: chat, photo
// analyses that come back as structured history payloads, care guides and
// translations. Everything behind it may fail; callers degrade per surface
// (a fixed fallback reply for chat, a plain error elsewhere) and never
// persist anything for a failed turn.
package ai

import (
	"context"

	"github.com/ferntree/sprout/internal/chat"
	"github.com/ferntree/sprout/internal/history"
)

// FallbackReply is shown in place of a chat answer when the assistant is
// unreachable. The failed turn is not recorded; the next attempt starts
// from the same conversation state.
const FallbackReply = "Sorry, I couldn't reach the plant assistant just now. Please try again in a moment."

// Turn is one prior exchange handed along for conversation context.
type Turn struct {
	Role chat.Role
	Text string
}

// Diagnosis is a plant disease analysis plus the identified plant, which
// becomes the history entry's display label.
type Diagnosis struct {
	PlantName string
	Analysis  history.Analysis
}

// Assistant is everything the app asks of the model.
type Assistant interface {
	// Chat answers the latest message given the conversation so far.
	// image optionally attaches a photo to the message (un-prefixed
	// base64, mime names its encoding); pass "" for text-only.
	Chat(ctx context.Context, turns []Turn, message, image, mime string) (string, error)

	// DiagnosePlant identifies the plant on the photo and its disease.
	// The image is un-prefixed base64; mime names its encoding.
	DiagnosePlant(ctx context.Context, image, mime string) (Diagnosis, error)

	// AnalyzeSoil reads pH and nutrient levels off a soil photo.
	AnalyzeSoil(ctx context.Context, image, mime string) (history.SoilReport, error)

	// IdentifySeed names the seeds on the photo and how to grow them.
	IdentifySeed(ctx context.Context, image, mime string) (history.SeedReport, error)

	// CareGuide writes a Markdown care guide for the named plant.
	CareGuide(ctx context.Context, plantName string) (string, error)

	// Translate renders text into the named language.
	Translate(ctx context.Context, text, language string) (string, error)
}
