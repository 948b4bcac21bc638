// Package gemini implements provider.Provider for the Gemini generative
// language API.
//
// The API key travels as the `key` query parameter. The model and the stream
// flag select the endpoint:
//
//	{base}/v1beta/models/{model}:generateContent
//	{base}/v1beta/models/{model}:streamGenerateContent
//
// System messages are joined with a blank line into systemInstruction, the
// remaining messages become contents with the assistant role renamed to model.
// Personality sensitivity levels map onto safety thresholds:
//
//	none   -> BLOCK_NONE
//	low    -> BLOCK_ONLY_HIGH
//	medium -> BLOCK_MEDIUM_AND_ABOVE
//	high   -> BLOCK_LOW_AND_ABOVE
//
// A streamed response is read as one JSON object per line; the text increment
// lives at candidates.0.content.parts.0.text.
package gemini
