package app

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/viant/afs"

	"github.com/p4sbu/buildingid/internal/config"
	"github.com/p4sbu/buildingid/internal/termcolor"
)

type App struct {
	Config config.Config
	FS     afs.Service
	Log    *logrus.Logger
	Out    io.Writer
	Err    io.Writer
	Theme  termcolor.Theme
	Now    func() time.Time
	RunID  func() string
}

type AssignOptions struct {
	Output string
	Report string
	DryRun bool
}

type ExportOptions struct {
	Output string
	Format string
}

func New(cfg config.Config, log *logrus.Logger, out, errOut io.Writer) *App {
	if log == nil {
		log = logrus.New()
		log.SetOutput(errOut)
	}
	return &App{
		Config: cfg,
		FS:     afs.New(),
		Log:    log,
		Out:    out,
		Err:    errOut,
		Theme:  termcolor.NewTheme(termcolor.DetectColorMode()),
		Now:    time.Now,
		RunID:  uuid.NewString,
	}
}
