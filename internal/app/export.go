package app

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/p4sbu/buildingid/internal/geojson"
	"github.com/p4sbu/buildingid/internal/paths"
	"github.com/p4sbu/buildingid/internal/report"
)

// Export emits a building record for every feature that carries both an
// identifier and a geometry, to opts.Output or to a.Out when no output is
// given.
func (a *App) Export(ctx context.Context, opts ExportOptions, document string) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	location := paths.Resolve(document)
	t := a.Theme
	log := a.Log.WithFields(logrus.Fields{
		"run":      a.RunID(),
		"document": location,
	})

	doc, err := geojson.Load(ctx, a.FS, location)
	if err != nil {
		return err
	}

	buildings := make([]report.Building, 0, doc.Len())
	for _, feature := range doc.Features() {
		flog := log.WithField("feature", feature.Index)
		id, err := feature.StringProperty(a.Config.Properties.ID)
		if err != nil {
			flog.WithError(err).Warn("skipping feature")
			fmt.Fprintf(a.Err, "%s skipping feature %d: %v\n", t.WarningText("Warning:"), feature.Index, err)
			continue
		}
		if id == "" {
			flog.Warn("skipping feature without building id")
			fmt.Fprintf(a.Err, "%s skipping feature %d: no %s\n", t.WarningText("Warning:"), feature.Index, a.Config.Properties.ID)
			continue
		}
		b, ok := buildingFor(feature, id, a.Config.Properties.Name)
		if !ok {
			flog.WithField("id", id).Warn("skipping feature without geometry")
			fmt.Fprintf(a.Err, "%s skipping %s: no geometry\n", t.WarningText("Warning:"), id)
			continue
		}
		buildings = append(buildings, b)
	}

	format := report.Format(opts.Format)
	if opts.Output == "" {
		return report.Encode(a.Out, format, buildings)
	}
	output := paths.Resolve(opts.Output)
	if err := report.SaveBuildings(ctx, a.FS, output, format, buildings); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"output": output, "buildings": len(buildings)}).Info("buildings exported")
	fmt.Fprintf(a.Out, "%s %s\n", t.SuccessText(fmt.Sprintf("Exported %d buildings to:", len(buildings))), output)
	return nil
}

// buildingFor builds the catalogue record; ok is false when the feature has
// no geometry with at least one position.
func buildingFor(feature geojson.Feature, id, nameKey string) (report.Building, bool) {
	geometry := feature.Geometry()
	centroid, ok := geojson.Centroid(geometry)
	if !ok {
		return report.Building{}, false
	}
	b := report.Building{
		BuildingID: id,
		Geometry:   geometry.Get("coordinates").Value(),
		Centroid:   centroid,
	}
	// Properties are known to exist here; a non-string name exports as "".
	b.Name, _ = feature.StringProperty(nameKey)
	b.Building, _ = feature.StringProperty("building")
	if value, err := feature.Property("id"); err == nil && value.Exists() {
		b.ID = value.Value()
	}
	return b, true
}
