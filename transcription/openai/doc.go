// Package openai is the backend for OpenAI's hosted Whisper API and
// self-hosted servers speaking the same /audio/transcriptions protocol.
package openai
