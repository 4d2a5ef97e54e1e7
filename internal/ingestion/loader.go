// Package ingestion discovers scanner export files and aggregates their
// findings into one normalized table.
package ingestion

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/tmnguyen/postureboard/internal/finding"
	"github.com/tmnguyen/postureboard/internal/normalization"
	"github.com/tmnguyen/postureboard/internal/observability"
	"github.com/tmnguyen/postureboard/internal/remediation"
)

// ErrNoFindings is returned when a load produces zero records: no eligible
// files, or every file failed to parse. Callers must treat this as a terminal
// "nothing to show" state and skip filtering, metrics, and export.
var ErrNoFindings = errors.New("no findings detected in input directory")

// Loader builds the normalized table from a directory of JSON exports. It
// holds no table state; every Load starts from the current directory
// contents, so overlapping renders never share a table.
type Loader struct {
	dir     string
	logger  *zap.Logger
	metrics *observability.Metrics
}

// NewLoader creates a loader over an input directory. metrics may be nil.
func NewLoader(dir string, logger *zap.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{dir: dir, logger: logger, metrics: metrics}
}

// Load scans the directory (flat, no recursion) for *.json files in lexical
// order, extracts canonical records from each, and returns the derived table.
// A file that fails to read or parse is logged and skipped; it never aborts
// the remaining files. Zero total records returns ErrNoFindings.
func (l *Loader) Load(ctx context.Context) (finding.Table, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, err
	}

	var records []finding.Record
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			continue
		}

		path := filepath.Join(l.dir, entry.Name())
		service := normalization.ServiceFromFile(entry.Name())

		doc, err := l.parseFile(path)
		if err != nil {
			l.logger.Warn("Skipping unparseable export",
				zap.String("file", entry.Name()),
				zap.Error(err))
			if l.metrics != nil {
				l.metrics.DocumentsFailed.Inc()
			}
			continue
		}

		extracted := normalization.Extract(doc, service)
		records = append(records, extracted...)

		if l.metrics != nil {
			l.metrics.DocumentsParsed.Inc()
			l.metrics.FindingsExtracted.WithLabelValues(service).Add(float64(len(extracted)))
		}
		l.logger.Debug("Extracted findings",
			zap.String("file", entry.Name()),
			zap.String("service", service),
			zap.Int("count", len(extracted)))
	}

	if len(records) == 0 {
		return nil, ErrNoFindings
	}
	return remediation.Annotate(records), nil
}

func (l *Loader) parseFile(path string) (any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
