package logging

import "strings"

// FormatSubject builds the title/provider subject string used in console output.
func FormatSubject(titleID, provider string) string {
	titleID = strings.TrimSpace(titleID)
	provider = strings.TrimSpace(provider)
	switch {
	case titleID != "" && provider != "":
		return "Title " + titleID + " (" + provider + ")"
	case titleID != "":
		return "Title " + titleID
	case provider != "":
		return provider
	default:
		return ""
	}
}
