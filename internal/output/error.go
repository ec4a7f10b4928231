package output

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	gifterr "github.com/fargift/fargift/pkg/errors"
)

// ErrorOutput wraps an error detail for JSON output.
type ErrorOutput struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail is the JSON shape of a structured error.
type ErrorDetail struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	Suggestion string            `json:"suggestion,omitempty"`
	ExitCode   int               `json:"exit_code"`
}

// FormatError writes an error in the given format. Structured errors keep
// their code, details, and suggestion; plain errors get a generic code.
func FormatError(w io.Writer, err error, format Format) error {
	if err == nil {
		return nil
	}

	detail := ErrorDetail{
		Code:     "GENERAL_ERROR",
		Message:  err.Error(),
		ExitCode: gifterr.ExitGeneral,
	}

	var ge *gifterr.GiftError
	if errors.As(err, &ge) {
		detail = ErrorDetail{
			Code:       ge.Code,
			Message:    ge.Message,
			Details:    ge.Details,
			Suggestion: ge.Suggestion,
			ExitCode:   ge.ExitCode,
		}
	}

	if format == FormatJSON {
		return encodeJSON(w, ErrorOutput{Error: detail})
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Error: %s\n", detail.Message))

	if len(detail.Details) > 0 {
		keys := make([]string, 0, len(detail.Details))
		for k := range detail.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, detail.Details[k]))
		}
	}

	if detail.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("\nSuggestion: %s\n", detail.Suggestion))
	}

	_, writeErr := io.WriteString(w, sb.String())
	return writeErr
}

// FormatSuccess writes a success message in the given format.
func FormatSuccess(w io.Writer, message string, format Format) error {
	if format == FormatJSON {
		return encodeJSON(w, map[string]string{
			"status":  "success",
			"message": message,
		})
	}
	_, err := fmt.Fprintln(w, message)
	return err
}
