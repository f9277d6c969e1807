package domain

import "fmt"

// Profile is a named scan configuration from the profiles INI file.
type Profile struct {
	Name string
	// Target is the default target path for this profile.
	Target string
	// Catalogs lists extra rule catalog files loaded on top of the
	// builtin rules.
	Catalogs []string
	// SeverityFloor drops rules below this severity from the scan.
	// Empty means no floor.
	SeverityFloor Severity
	// Format is the default report format (table, markdown, sarif, json).
	Format string
}

func (p Profile) String() string {
	return fmt.Sprintf("%s:%s", p.Name, p.Target)
}
