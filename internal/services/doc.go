// Package services wires creatived's components from configuration.
//
// Build opens the store, loads the secret scrubber, creates the classifier
// client when credentials are present, connects the event publisher when a
// broker URL is set, and returns a Registry holding the resulting campaign
// service. Both the daemon and the crtv CLI start from here.
package services
