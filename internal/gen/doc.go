// Package gen defines the generation provider contract, the error classifier
// that turns raw provider failures into user-facing messages, and the audio
// handling for narration playback.
package gen
