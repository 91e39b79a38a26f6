// Package interpret classifies free-text user replies to a pending
// confirmation question. It deliberately accepts natural phrasing ("yes",
// "no, it's Jane Smith", or a bare replacement value) instead of a rigid
// yes/no protocol.
package interpret

import (
	"regexp"
	"strings"

	"github.com/jayanta8509/TAX-MCP/internal/validate"
	"github.com/jayanta8509/TAX-MCP/pkg/models"
)

// Outcome is the classification of a user reply.
type Outcome string

const (
	// Confirm means the user accepted the presented value.
	Confirm Outcome = "confirm"
	// RejectWithValue means the user rejected the presented value and
	// supplied a replacement.
	RejectWithValue Outcome = "reject_with_value"
	// RejectWithoutValue means the user rejected the presented value but
	// gave nothing usable; the caller must re-prompt.
	RejectWithoutValue Outcome = "reject_without_value"
	// Ambiguous means no classification matched confidently.
	Ambiguous Outcome = "ambiguous"
)

// Result holds the classification and, for RejectWithValue, the extracted
// replacement value.
type Result struct {
	Outcome Outcome
	Value   string
}

var confirmationPhrases = []string{
	"yes", "y", "correct", "ok", "okay", "yeah", "yep", "yup", "sure",
	"that's right", "that is right", "right", "exactly", "absolutely",
	"yes that's correct", "yes that is correct", "yes correct",
	"that's correct", "that is correct", "looks good", "confirm",
	"affirmative", "indeed", "si", "oui",
}

var rejectionPhrases = []string{
	"no", "n", "incorrect", "wrong", "nope", "nah",
	"that's not", "that is not", "not correct", "not right",
}

var (
	dateRe = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	itinRe = regexp.MustCompile(`9\d{2}-\d{2}-\d{4}`)

	// Conversational lead-ins stripped before treating the remainder as a
	// value. Order matters: the more specific forms go first.
	valuePrefixes = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^no,?\s*it'?s\s+`),
		regexp.MustCompile(`(?i)^no,?\s*my\s+\w+\s+is\s+`),
		regexp.MustCompile(`(?i)^no,?\s*the\s+correct\s+(?:value|name|answer)\s+is\s+`),
		regexp.MustCompile(`(?i)^no[,\s]+`),
		regexp.MustCompile(`(?i)^it'?s\s+`),
		regexp.MustCompile(`(?i)^the\s+correct\s+(?:value|name|answer)\s+is\s+`),
		regexp.MustCompile(`(?i)^my\s+\w+\s+is\s+`),
		regexp.MustCompile(`(?i)^(?:actually|correct)\s+`),
		regexp.MustCompile(`(?i)^change\s+(?:it\s+)?to\s+`),
		regexp.MustCompile(`(?i)^update\s+(?:it\s+)?to\s+`),
	}

	trailingPunct = regexp.MustCompile(`[.,;!?]+$`)
)

// Interpret classifies free text against the expected data type. An explicit
// negative token always wins over reusing the whole utterance as a value.
func Interpret(text string, dataType models.DataType) Result {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Result{Outcome: Ambiguous}
	}
	lowered := strings.ToLower(trailingPunct.ReplaceAllString(trimmed, ""))

	for _, phrase := range confirmationPhrases {
		if lowered == phrase {
			return Result{Outcome: Confirm}
		}
	}

	if isRejection(lowered) {
		value := ExtractValue(trimmed, dataType)
		if value == "" || isRejectionWord(strings.ToLower(value)) {
			return Result{Outcome: RejectWithoutValue}
		}
		return classifyValue(value, dataType, RejectWithValue)
	}

	// No explicit yes/no: treat the utterance itself as a candidate
	// replacement value.
	value := ExtractValue(trimmed, dataType)
	if value == "" {
		return Result{Outcome: Ambiguous}
	}
	return classifyValue(value, dataType, RejectWithValue)
}

// classifyValue applies a type plausibility check before handing the value
// back. Boolean replies outside the yes/no vocabulary stay ambiguous.
func classifyValue(value string, dataType models.DataType, outcome Outcome) Result {
	if dataType == models.DataTypeBoolean {
		normalized, err := validate.Boolean(value)
		if err != nil {
			return Result{Outcome: Ambiguous}
		}
		return Result{Outcome: outcome, Value: normalized}
	}
	return Result{Outcome: outcome, Value: value}
}

// ExtractValue pulls the replacement value out of a natural-language message:
// "No, it's 1990-05-16" yields "1990-05-16", "no my name is Alex" yields
// "Alex". Date and ITIN answers are matched by pattern anywhere in the text.
func ExtractValue(message string, dataType models.DataType) string {
	msg := strings.TrimSpace(message)

	switch dataType {
	case models.DataTypeDate:
		if m := dateRe.FindString(msg); m != "" {
			return m
		}
	case models.DataTypeITIN:
		if m := itinRe.FindString(msg); m != "" {
			return m
		}
	}

	// Strip lead-ins until nothing matches, so stacked fillers
	// ("no, actually it's ...") all come off.
	cleaned := msg
	for {
		before := cleaned
		for _, re := range valuePrefixes {
			cleaned = re.ReplaceAllString(cleaned, "")
		}
		if cleaned == before {
			break
		}
	}
	return trailingPunct.ReplaceAllString(strings.TrimSpace(cleaned), "")
}

func isRejection(lowered string) bool {
	for _, phrase := range rejectionPhrases {
		if lowered == phrase ||
			strings.HasPrefix(lowered, phrase+" ") ||
			strings.HasPrefix(lowered, phrase+",") {
			return true
		}
	}
	return false
}

func isRejectionWord(lowered string) bool {
	for _, phrase := range rejectionPhrases {
		if lowered == phrase {
			return true
		}
	}
	return false
}
