package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/Zachdehooge/painel-ambiental/internal/dashboard"
	"github.com/Zachdehooge/painel-ambiental/internal/dataset"
)

// PageData is what the dashboard template renders.
type PageData struct {
	Title        string
	Snapshot     dashboard.Snapshot
	SnapshotJSON template.JS
	Layers       []LayerOption
	Regions      []string
	Periods      []int
	Live         bool
	RefreshMs    int64
}

type LayerOption struct {
	Key  string
	Name string
}

var pageTmpl = template.Must(template.New("dashboard").Funcs(template.FuncMap{
	"toJSON":  toJSON,
	"element": element,
}).Parse(pageHTML))

// RenderDashboardHTML writes the dashboard page for snap to w. Live pages
// connect back to the server over a websocket; static pages poll the
// snapshot file every refresh.
func RenderDashboardHTML(w io.Writer, snap dashboard.Snapshot, live bool, refresh time.Duration) error {
	snapJSON, err := toJSON(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data := PageData{
		Title:        "Painel Ambiental",
		Snapshot:     snap,
		SnapshotJSON: snapJSON,
		Regions:      dataset.NDVIRegions,
		Periods:      []int{7, 30, 90, 365},
		Live:         live,
		RefreshMs:    refresh.Milliseconds(),
	}
	for _, l := range dataset.Layers() {
		data.Layers = append(data.Layers, LayerOption{Key: l, Name: dataset.LayerName(l)})
	}
	return pageTmpl.Execute(w, data)
}

// GenerateDashboardHTML renders the static page to outputPath.
func GenerateDashboardHTML(snap dashboard.Snapshot, outputPath string, refresh time.Duration) error {
	var buf bytes.Buffer
	if err := RenderDashboardHTML(&buf, snap, false, refresh); err != nil {
		return fmt.Errorf("render template: %w", err)
	}
	return writeAtomic(outputPath, buf.Bytes())
}

// WriteSnapshot writes snap as JSON to outputPath.
func WriteSnapshot(outputPath string, snap dashboard.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal failed: %w", err)
	}
	return writeAtomic(outputPath, data)
}

// RunSnapshotWriter keeps outputPath in step with board: it writes once
// immediately, then every interval until ctx ends.
func RunSnapshotWriter(ctx context.Context, board *dashboard.Board, outputPath string, interval time.Duration, log zerolog.Logger) error {
	if err := WriteSnapshot(outputPath, board.Snapshot()); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	log.Info().Str("path", outputPath).Dur("every", interval).Msg("snapshot writer started")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := WriteSnapshot(outputPath, board.Snapshot()); err != nil {
				log.Error().Err(err).Msg("snapshot write failed")
				continue
			}
			log.Debug().Str("path", outputPath).Msg("snapshot written")
		}
	}
}

// writeAtomic writes to a temp file then renames it, so a browser polling
// the file never reads half of it.
func writeAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("write tmp failed: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename failed: %w", err)
	}
	return nil
}

func toJSON(v interface{}) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return template.JS(b), nil
}

// element looks up an element's text for the template.
func element(snap dashboard.Snapshot, id string) string {
	e, ok := snap.Element(id)
	if !ok {
		return ""
	}
	return e.Text
}
