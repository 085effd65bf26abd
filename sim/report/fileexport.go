package report

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"

	"github.com/highway-sim/highway-sim/sim"
)

// DefaultExportFiles is the number of rotating slots used by FileExporter.
const DefaultExportFiles = 5

// FileExporter writes every n-th snapshot to a rotating set of space-separated
// files for an external ETL consumer.
//
// Slot k is written as <dir>/<k>.csv followed by an empty <dir>/<k>.tmp
// marker announcing that the file is complete. The consumer removes the marker
// once it has read the slot. A slot whose marker still exists is skipped, so
// unread data is never overwritten.
//
// The first line of each file is "cycle timestamp lanes size speed_limit",
// followed by one "id direction lane distance" line per vehicle, where
// direction is 0 for incoming and 1 for outgoing.
type FileExporter struct {
	dir   string
	every int64
	files int
	next  int
}

// NewFileExporter creates dir if needed and returns an exporter writing every
// `every` cycles into `files` rotating slots.
func NewFileExporter(dir string, every int64, files int) (*FileExporter, error) {
	if every <= 0 {
		return nil, fmt.Errorf("export interval must be positive, got %d", every)
	}
	if files <= 0 {
		return nil, fmt.Errorf("export file count must be positive, got %d", files)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &FileExporter{dir: dir, every: every, files: files}, nil
}

func (e *FileExporter) Name() string { return "file-export" }

// Report writes the snapshot if its cycle is due and the next slot is free.
func (e *FileExporter) Report(_ context.Context, snap *sim.Snapshot) error {
	if snap.Cycle%e.every != 0 {
		return nil
	}
	data, marker := e.slotPaths(e.next)
	if _, err := os.Stat(marker); err == nil {
		logrus.Debugf("[cycle %07d] export slot %d not consumed yet, skipping", snap.Cycle, e.next)
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("check marker %s: %w", marker, err)
	}

	if err := writeExport(data, snap); err != nil {
		return err
	}
	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return fmt.Errorf("write marker %s: %w", marker, err)
	}
	e.next = (e.next + 1) % e.files
	return nil
}

func (e *FileExporter) slotPaths(slot int) (data, marker string) {
	base := filepath.Join(e.dir, strconv.Itoa(slot))
	return base + ".csv", base + ".tmp"
}

func writeExport(path string, snap *sim.Snapshot) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close export file: %w", cerr)
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = ' '
	h := snap.Highway
	ts := float64(snap.Timestamp.UnixNano()) / 1e9
	records := [][]string{{
		strconv.FormatInt(snap.Cycle, 10),
		strconv.FormatFloat(ts, 'f', 6, 64),
		strconv.Itoa(h.Lanes),
		strconv.Itoa(h.Size),
		strconv.Itoa(h.SpeedLimit),
	}}
	for _, v := range snap.Vehicles {
		records = append(records, []string{
			v.ID,
			strconv.Itoa(int(v.Direction)),
			strconv.Itoa(v.Lane),
			strconv.Itoa(v.Distance),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("write export file: %w", err)
	}
	return nil
}
