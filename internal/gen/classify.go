package gen

import "strings"

// Category buckets a raw provider failure for status handling and logging.
type Category string

const (
	CategoryTextResponse  Category = "text_response"
	CategoryExhausted     Category = "exhausted"
	CategoryImageFailure  Category = "image_failure"
	CategoryEditFailure   Category = "edit_failure"
	CategoryAuthInvalid   Category = "auth_invalid"
	CategoryPromptBlocked Category = "prompt_blocked"
	CategoryVideoFailure  Category = "video_failure"
	CategoryUnknown       Category = "unknown"
)

type classifyRule struct {
	substrings []string
	category   Category
	message    string
}

// Rules are checked in order; the first substring match wins. Image rules
// come before video rules so the more specific image failures are not
// swallowed by broader matches.
var classifyRules = []classifyRule{
	{
		substrings: []string{"responded with text instead of an image"},
		category:   CategoryTextResponse,
		message:    "The AI couldn't create an image, possibly due to safety filters. Try a different photo or decade.",
	},
	{
		substrings: []string{"failed with both original and fallback prompts"},
		category:   CategoryExhausted,
		message:    "The AI failed after multiple attempts. Please try again later or with a different photo.",
	},
	{
		substrings: []string{"failed to generate an image"},
		category:   CategoryImageFailure,
		message:    "An unexpected error occurred during image generation. Please check your connection and try again.",
	},
	{
		substrings: []string{"failed to edit the image"},
		category:   CategoryEditFailure,
		message:    "The AI failed to edit the image. This could be due to safety filters or a complex request. Try a different instruction.",
	},
	{
		substrings: []string{"API key not valid", "API_KEY_INVALID", "Requested entity was not found."},
		category:   CategoryAuthInvalid,
		message:    "API Key error. Please ensure your key is valid and has the 'Generative Language API' enabled, then re-select it and try again.",
	},
	{
		substrings: []string{"prompt was blocked"},
		category:   CategoryPromptBlocked,
		message:    "The video request was blocked due to safety filters. Please try a different photo or decade.",
	},
	{
		substrings: []string{"Video generation failed"},
		category:   CategoryVideoFailure,
		message:    "The AI failed to create a video. This can happen with complex requests or a temporary service issue. Please try again.",
	},
}

const unknownErrorMessage = "An unknown error occurred. Please try again."

// Classify maps a raw provider error to its user-facing message.
func Classify(err error) string {
	_, message := ClassifyDetail(err)
	return message
}

// ClassifyDetail maps a raw provider error to its category and user-facing
// message. Matching is substring-based on the error text, in rule order.
func ClassifyDetail(err error) (Category, string) {
	if err == nil {
		return CategoryUnknown, unknownErrorMessage
	}
	message := err.Error()
	for _, rule := range classifyRules {
		for _, needle := range rule.substrings {
			if strings.Contains(message, needle) {
				return rule.category, rule.message
			}
		}
	}
	return CategoryUnknown, unknownErrorMessage
}
