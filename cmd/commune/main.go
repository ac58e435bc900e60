// Commune is the séance chat relay for the ghost-hunting app.
//
// It accepts a user's chat message with bounded conversation history and
// optional contextual hints, forwards an assembled prompt to the OpenAI
// chat completions API, and relays the generated spirit reply back.
//
// Usage:
//
//	# Start the server (configuration from config.yaml + environment)
//	commune run
//
//	# Start with a custom configuration file
//	commune run --config /etc/commune/config.yaml
//
//	# Show version information
//	commune version
package main

func main() {
	Execute()
}
