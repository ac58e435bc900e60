// Package openai is a minimal client for the OpenAI chat completions API.
//
// The service only needs one operation: send an ordered message sequence,
// get the first generated choice back. Streaming, tools and multimodal
// content are deliberately out of scope.
package openai
