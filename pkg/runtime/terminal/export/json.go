package export

import (
	"encoding/json"
	"io"

	"github.com/sec-tools/policy-atlas/pkg/adapters"
	"github.com/sec-tools/policy-atlas/pkg/models/domain"
)

// JsonReporter writes the report using the same shape the HTTP API
// serves, so piped output stays consistent with the web surface.
type JsonReporter struct {
	writer io.Writer
}

func NewJsonReporter(writer io.Writer) *JsonReporter {
	return &JsonReporter{writer: writer}
}

func (j *JsonReporter) Handle(report *domain.ScanReport) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(adapters.MapScanReportDomainToApi(*report))
}
