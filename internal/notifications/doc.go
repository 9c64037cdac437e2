// Package notifications delivers batch lifecycle events via ntfy.
//
// The default implementation publishes to the topic configured in config.toml
// and gracefully degrades to a no-op when notifications are disabled. The
// engine depends only on the Service interface, so alternative transports can
// be added without touching generation code.
package notifications
