package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/p4sbu/buildingid/internal/buildingid"
	"github.com/p4sbu/buildingid/internal/config"
	"github.com/p4sbu/buildingid/internal/geojson"
	"github.com/p4sbu/buildingid/internal/lock"
	"github.com/p4sbu/buildingid/internal/paths"
	"github.com/p4sbu/buildingid/internal/report"
)

const (
	skipNoName        = "no name"
	skipNoProperties  = "no properties"
	skipNameNotString = "name is not a string"
)

// Assign gives every named feature of document a unique building
// identifier and writes the result. Nothing is written unless every
// feature was processed.
func (a *App) Assign(ctx context.Context, opts AssignOptions, document string) error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	p := paths.New(document, opts.Output)
	t := a.Theme
	runID := a.RunID()
	log := a.Log.WithFields(logrus.Fields{
		"run":      runID,
		"document": p.Document,
	})

	if !opts.DryRun && p.LockPath != "" {
		lck, err := lock.Acquire(p.LockPath, a.Config.LockTimeout())
		if err != nil {
			return err
		}
		defer lck.Release()
	}

	doc, err := geojson.Load(ctx, a.FS, p.Document)
	if err != nil {
		return err
	}
	log.WithField("features", doc.Len()).Debug("document loaded")

	rep := &report.Report{
		Run:         runID,
		Document:    p.Document,
		Output:      p.Output,
		GeneratedAt: a.Now().UTC(),
		DryRun:      opts.DryRun,
	}
	assigner := buildingid.NewAssigner(buildingid.NewUsedSet(), a.Config.Filler())
	for _, feature := range doc.Features() {
		entry, err := a.assignFeature(doc, feature, assigner, log)
		if err != nil {
			return err
		}
		rep.Add(entry)
	}

	if opts.DryRun {
		for _, entry := range rep.Assigned() {
			fmt.Fprintf(a.Out, "%s %s %s\n", t.MutedText("Would assign"), t.AccentText(entry.ID), entry.Name)
		}
		fmt.Fprintf(a.Out, "%s\n", t.MutedText(summary(rep.Totals)))
		return nil
	}

	if err := doc.Save(ctx, a.FS, p.Output, a.Config.Output.Indent); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"output":     p.Output,
		"assigned":   rep.Totals.Assigned,
		"collisions": rep.Totals.Collisions,
	}).Info("document written")

	if location := a.reportLocation(opts, p); location != "" {
		if err := rep.Save(ctx, a.FS, location); err != nil {
			return err
		}
		log.WithField("report", location).Info("report written")
	}

	fmt.Fprintf(a.Out, "%s %s\n", t.SuccessText("Updated GeoJSON with unique 4-letter buildingIds saved to:"), p.Output)
	fmt.Fprintf(a.Out, "%s\n", t.MutedText(summary(rep.Totals)))
	return nil
}

func (a *App) assignFeature(doc *geojson.Document, feature geojson.Feature, assigner *buildingid.Assigner, log *logrus.Entry) (report.Entry, error) {
	entry := report.Entry{Index: feature.Index}
	flog := log.WithField("feature", feature.Index)

	name, err := feature.StringProperty(a.Config.Properties.Name)
	switch {
	case errors.Is(err, geojson.ErrNoProperties):
		flog.Warn("skipping feature without properties")
		fmt.Fprintf(a.Err, "%s skipping feature %d: no properties\n", a.Theme.WarningText("Warning:"), feature.Index)
		entry.Skipped = skipNoProperties
		return entry, nil
	case errors.Is(err, geojson.ErrNotString):
		flog.WithError(err).Warn("skipping feature with non-string name")
		fmt.Fprintf(a.Err, "%s skipping feature %d: %q is not a string\n", a.Theme.WarningText("Warning:"), feature.Index, a.Config.Properties.Name)
		entry.Skipped = skipNameNotString
		return entry, nil
	case err != nil:
		return entry, err
	}
	entry.Name = name

	assignment, ok, err := assigner.Assign(name)
	if err != nil {
		return entry, fmt.Errorf("feature %d (%q): %w", feature.Index, name, err)
	}
	if !ok {
		flog.Debug("no name, skipped")
		entry.Skipped = skipNoName
		return entry, nil
	}
	if err := doc.SetProperty(feature.Index, a.Config.Properties.ID, assignment.ID); err != nil {
		return entry, err
	}

	entry.Base = assignment.Base
	entry.ID = assignment.ID
	entry.Collided = assignment.Collided
	flog.WithFields(logrus.Fields{
		"name":     name,
		"id":       assignment.ID,
		"collided": assignment.Collided,
	}).Debug("assigned")
	return entry, nil
}

// reportLocation prefers the command option over the config. The config
// value "auto" places the report next to the output document.
func (a *App) reportLocation(opts AssignOptions, p paths.Paths) string {
	location := opts.Report
	if location == "" {
		location = a.Config.Output.Report
	}
	if location == config.AutoReport {
		return p.DefaultReport()
	}
	return paths.Resolve(location)
}

func summary(t report.Totals) string {
	noun := "features"
	if t.Features == 1 {
		noun = "feature"
	}
	return fmt.Sprintf("%d %s: %d assigned, %d skipped, %d collisions resolved",
		t.Features, noun, t.Assigned, t.Skipped, t.Collisions)
}
