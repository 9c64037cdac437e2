// Package gemini implements the generation provider against the Google
// Generative Language REST API: image generation and editing through
// generateContent, video through the long-running predict operation, and
// narration through the speech generation models.
package gemini
