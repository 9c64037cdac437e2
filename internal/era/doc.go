// Package era defines the known decade keys and the prompt material used to
// generate era-styled portraits and narration.
package era
