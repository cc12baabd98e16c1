package errors

import "strings"

// Format returns a multi-line rendering of the error for terminal
// output: code and message, then detail, suggestion, and doc link.
func (e *NavError) Format() string {
	var b strings.Builder

	b.WriteString("ERROR ")
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	b.WriteString("\n")

	if e.Detail != "" {
		b.WriteString("\n  ")
		b.WriteString(e.Detail)
		b.WriteString("\n")
	}

	if e.Suggestion != "" {
		b.WriteString("\n  hint: ")
		b.WriteString(e.Suggestion)
		b.WriteString("\n")
	}

	if e.Wrapped != nil {
		b.WriteString("\n  caused by: ")
		b.WriteString(e.Wrapped.Error())
		b.WriteString("\n")
	}

	if e.DocURL != "" {
		b.WriteString("\n  docs: ")
		b.WriteString(e.DocURL)
		b.WriteString("\n")
	}

	return b.String()
}
