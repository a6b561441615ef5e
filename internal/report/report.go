package report

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"gopkg.in/yaml.v3"

	"github.com/p4sbu/buildingid/internal/geojson"
)

// Entry records the outcome for one feature of an assign run.
type Entry struct {
	Index    int    `yaml:"index"`
	Name     string `yaml:"name,omitempty"`
	Base     string `yaml:"base,omitempty"`
	ID       string `yaml:"building_id,omitempty"`
	Collided bool   `yaml:"collided,omitempty"`
	Skipped  string `yaml:"skipped,omitempty"`
}

type Totals struct {
	Features   int `yaml:"features"`
	Assigned   int `yaml:"assigned"`
	Skipped    int `yaml:"skipped"`
	Collisions int `yaml:"collisions"`
}

// Report is the YAML summary of one assign run.
type Report struct {
	Run         string    `yaml:"run"`
	Document    string    `yaml:"document"`
	Output      string    `yaml:"output"`
	GeneratedAt time.Time `yaml:"generated_at"`
	DryRun      bool      `yaml:"dry_run,omitempty"`
	Totals      Totals    `yaml:"totals"`
	Entries     []Entry   `yaml:"entries"`
}

// Add appends entry and updates the totals.
func (r *Report) Add(entry Entry) {
	r.Totals.Features++
	switch {
	case entry.Skipped != "":
		r.Totals.Skipped++
	case entry.ID != "":
		r.Totals.Assigned++
		if entry.Collided {
			r.Totals.Collisions++
		}
	}
	r.Entries = append(r.Entries, entry)
}

// Assigned returns the entries that received an identifier.
func (r *Report) Assigned() []Entry {
	var out []Entry
	for _, entry := range r.Entries {
		if entry.ID != "" {
			out = append(out, entry)
		}
	}
	return out
}

func (r *Report) Save(ctx context.Context, fs afs.Service, location string) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	return upload(ctx, fs, location, data)
}

// Building is the catalogue record exported for a feature that carries an
// identifier and a geometry. Geometry holds the raw coordinates array.
type Building struct {
	Name       string        `yaml:"name" json:"name"`
	BuildingID string        `yaml:"buildingId" json:"buildingId"`
	ID         interface{}   `yaml:"id,omitempty" json:"id,omitempty"`
	Building   string        `yaml:"building,omitempty" json:"building,omitempty"`
	Geometry   interface{}   `yaml:"geometry" json:"geometry"`
	Centroid   geojson.Point `yaml:"centroid" json:"centroid"`
}

type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Encode writes buildings to w in the requested format.
func Encode(w io.Writer, format Format, buildings []Building) error {
	if buildings == nil {
		buildings = []Building{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		return enc.Encode(buildings)
	case FormatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(buildings); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format %q", format)
	}
}

// SaveBuildings encodes buildings and uploads them to location.
func SaveBuildings(ctx context.Context, fs afs.Service, location string, format Format, buildings []Building) error {
	var buf bytes.Buffer
	if err := Encode(&buf, format, buildings); err != nil {
		return err
	}
	return upload(ctx, fs, location, buf.Bytes())
}

func upload(ctx context.Context, fs afs.Service, location string, data []byte) error {
	if err := fs.Upload(ctx, location, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", location, err)
	}
	return nil
}
