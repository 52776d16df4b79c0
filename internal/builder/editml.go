// internal/builder/editml.go
package builder

import (
	"fmt"

	"github.com/verkaro/editml-go"
)

// cleanEditML accepts every EditML change in body and returns the plain
// Markdown left over. Only error-severity issues stop the build.
func cleanEditML(body string) (string, error) {
	nodes, parseIssues := editml.Parse(body)
	for _, issue := range parseIssues {
		if issue.Severity == editml.SeverityError {
			return "", fmt.Errorf("editml parsing error: %s", issue.Message)
		}
	}
	clean, transformIssues := editml.TransformCleanView(nodes)
	for _, issue := range transformIssues {
		if issue.Severity == editml.SeverityError {
			return "", fmt.Errorf("editml transformation error: %s", issue.Message)
		}
	}
	return clean, nil
}

// wantsEditML reports whether a page opted into EditML processing.
func wantsEditML(data map[string]any) bool {
	on, _ := data["editml"].(bool)
	return on
}
