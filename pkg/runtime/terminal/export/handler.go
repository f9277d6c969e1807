package export

import (
	"fmt"
	"io"

	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// Handler renders a finished scan report to some output format.
type Handler interface {
	Handle(report *domain.ScanReport) error
}

const (
	FormatTable    = "table"
	FormatJson     = "json"
	FormatMarkdown = "markdown"
	FormatSarif    = "sarif"
)

func For(format string, writer io.Writer) (Handler, error) {
	switch format {
	case FormatTable, "":
		return NewReporter(writer), nil
	case FormatJson:
		return NewJsonReporter(writer), nil
	case FormatMarkdown:
		return NewMarkdownReporter(writer), nil
	case FormatSarif:
		return NewSarifReporter(writer), nil
	default:
		return nil, fmt.Errorf("unknown output format %q", format)
	}
}
