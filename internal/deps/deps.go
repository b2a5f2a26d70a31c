// Package deps reports whether the external programs subtitler shells out to
// can be found.
package deps

import (
	"fmt"
	"os/exec"
	"strings"
)

// Requirement defines an external program subtitler relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Path        string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, 0, len(requirements))
	for _, req := range requirements {
		cmd := strings.TrimSpace(req.Command)
		status := Status{
			Name:        req.Name,
			Command:     cmd,
			Description: strings.TrimSpace(req.Description),
			Optional:    req.Optional,
		}
		if cmd == "" {
			status.Detail = "command not configured"
			results = append(results, status)
			continue
		}
		resolved, err := exec.LookPath(cmd)
		if err != nil {
			status.Detail = fmt.Sprintf("binary %q not found", cmd)
			results = append(results, status)
			continue
		}
		status.Path = resolved
		status.Available = true
		results = append(results, status)
	}
	return results
}

// MissingRequired returns the names of unavailable, non-optional requirements.
func MissingRequired(statuses []Status) []string {
	var missing []string
	for _, s := range statuses {
		if !s.Available && !s.Optional {
			missing = append(missing, s.Name)
		}
	}
	return missing
}
