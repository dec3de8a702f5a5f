package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"ecocal/internal/config"
	"ecocal/internal/infrastructure"
	"ecocal/pkg/contracts/domain"
)

// ErrNoSnapshot is returned when no destination holds a published
// snapshot yet. Quick-refresh runs treat this as fatal.
var ErrNoSnapshot = errors.New("exporter: no published snapshot found")

// Publisher writes run artifacts to the configured destinations.
type Publisher struct {
	outputs config.OutputsConfig
	logger  *slog.Logger
	metrics *infrastructure.CalendarMetrics
}

// NewPublisher creates a publisher for the configured outputs.
func NewPublisher(outputs config.OutputsConfig, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{outputs: outputs, logger: logger}
}

// WithMetrics enables per-destination write metrics.
func (p *Publisher) WithMetrics(metrics *infrastructure.CalendarMetrics) *Publisher {
	p.metrics = metrics
	return p
}

// Publish writes the snapshot JSON to every destination and the
// supplementary formats to the primary destination. Destinations whose
// directory does not exist are skipped; individual write failures are
// logged. Publish fails only when no destination accepted the
// snapshot.
func (p *Publisher) Publish(ctx context.Context, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	written := 0
	for _, dest := range p.outputs.Destinations {
		if _, err := os.Stat(dest); os.IsNotExist(err) {
			p.logger.WarnContext(ctx, "destination_missing_skipped",
				slog.String("destination", dest))
			continue
		}

		path := filepath.Join(dest, p.outputs.SnapshotFile)
		err := writeAtomic(path, data)
		infrastructure.RecordSnapshotWrite(ctx, p.metrics, dest, err)
		if err != nil {
			p.logger.ErrorContext(ctx, "snapshot_write_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
			continue
		}

		written++
		p.logger.InfoContext(ctx, "snapshot_written",
			slog.String("path", path),
			slog.Int("event_count", len(snap.Events)))
	}

	if written == 0 {
		return fmt.Errorf("publish snapshot: no destination writable out of %d configured", len(p.outputs.Destinations))
	}

	p.writeSupplements(ctx, snap)
	return nil
}

// writeSupplements produces the optional ICS and XLSX artifacts in the
// primary destination. Failures are logged, never fatal: the JSON
// snapshot is the contract, the other formats are conveniences.
func (p *Publisher) writeSupplements(ctx context.Context, snap *domain.Snapshot) {
	primary := p.outputs.Destinations[0]
	if _, err := os.Stat(primary); os.IsNotExist(err) {
		return
	}

	if p.outputs.WriteICS {
		path := filepath.Join(primary, p.outputs.ICSFile)
		if err := WriteICS(path, snap); err != nil {
			p.logger.ErrorContext(ctx, "ics_write_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			p.logger.InfoContext(ctx, "ics_written", slog.String("path", path))
		}
	}

	if p.outputs.WriteExcel {
		path := filepath.Join(primary, p.outputs.ExcelFile)
		if err := WriteExcel(path, snap); err != nil {
			p.logger.ErrorContext(ctx, "excel_write_failed",
				slog.String("path", path),
				slog.String("error", err.Error()))
		} else {
			p.logger.InfoContext(ctx, "excel_written", slog.String("path", path))
		}
	}
}

// Load reads the published snapshot from the first destination that
// has one. Returns ErrNoSnapshot when none does.
func (p *Publisher) Load(ctx context.Context) (*domain.Snapshot, error) {
	for _, dest := range p.outputs.Destinations {
		path := filepath.Join(dest, p.outputs.SnapshotFile)
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				p.logger.WarnContext(ctx, "snapshot_read_failed",
					slog.String("path", path),
					slog.String("error", err.Error()))
			}
			continue
		}

		var snap domain.Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
		}
		return &snap, nil
	}

	return nil, ErrNoSnapshot
}

// writeAtomic writes data via a temp file in the target directory and
// renames it into place, so readers never observe a partial snapshot.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
