// Command pastforward generates era-styled portraits from a source photo and
// manages the resulting sessions: batch generation, per-era regenerate, edit,
// animate, and narrate operations, plus configuration and profile utilities.
package main
