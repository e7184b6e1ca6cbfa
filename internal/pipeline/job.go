package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"shopscout-engine/internal/classify"
	"shopscout-engine/internal/config"
	"shopscout-engine/internal/domain"
	"shopscout-engine/internal/ingest/workbook"
	"shopscout-engine/internal/metrics"
	"shopscout-engine/internal/outreach"
	"shopscout-engine/internal/pace"
	"shopscout-engine/internal/places"
	"shopscout-engine/internal/probe"
	"shopscout-engine/internal/report"
	"shopscout-engine/internal/store"
)

type Files struct {
	Input    string
	Output   string
	Messages string // optional
}

// Job is one end-to-end run: load, analyse, write.
type Job struct {
	Cfg    config.Config
	APIKey string
	Log    *zap.Logger
	Stdout io.Writer
}

// Warning printed once when no API key is configured.
func OfflineWarning(envVar string) string {
	return fmt.Sprintf("WARNING: No %s environment variable found. The script will "+
		"proceed without API calls and mark all shops as unknown.", envVar)
}

func (j Job) Execute(ctx context.Context, files Files) (Report, error) {
	log := j.Log
	if log == nil {
		log = zap.NewNop()
	}
	stdout := j.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}
	cfg := j.Cfg

	unlock, err := lockOutput(files.Output)
	if err != nil {
		return Report{}, err
	}
	defer unlock()

	if j.APIKey == "" {
		fmt.Fprintln(stdout, OfflineWarning(cfg.Credentials.EnvVar))
		log.Warn("no API key configured; running offline", zap.String("env_var", cfg.Credentials.EnvVar))
	}

	loaded, err := workbook.NewLoader(workbook.Options{
		Sheets:  cfg.Workbook.Sheets,
		Columns: cfg.Workbook.Columns,
	}, log.Named("workbook")).Load(files.Input)
	if err != nil {
		return Report{}, err
	}

	m := metrics.NewRun()
	runner := j.runner(cfg, m, log)

	rep, err := runner.Run(ctx, loaded.Shops, Options{ComposeMessages: files.Messages != ""})
	if err != nil {
		return rep, err
	}

	if err := report.WriteFile(files.Output, func(w io.Writer) error {
		return report.WriteRows(w, rep.Rows)
	}); err != nil {
		return rep, err
	}
	if files.Messages != "" {
		if err := report.WriteFile(files.Messages, func(w io.Writer) error {
			return report.WriteOutreach(w, rep.Messages)
		}); err != nil {
			return rep, err
		}
	}

	if cfg.Report.SQLitePath != "" {
		if err := exportSQLite(ctx, cfg.Report.SQLitePath, files.Input, rep); err != nil {
			return rep, &domain.OpError{Op: "report.sqlite", Kind: domain.KindOutput, Path: cfg.Report.SQLitePath, Err: err}
		}
		log.Info("report exported", zap.String("sqlite", cfg.Report.SQLitePath))
	}
	if cfg.Report.MetricsTextfile != "" {
		if err := m.WriteTextfile(cfg.Report.MetricsTextfile); err != nil {
			// metrics are best effort; the report is already written
			log.Warn("metrics textfile write failed", zap.String("path", cfg.Report.MetricsTextfile), zap.Error(err))
		}
	}

	return rep, nil
}

func (j Job) runner(cfg config.Config, m *metrics.Run, log *zap.Logger) *Runner {
	mode := classify.StripExact
	if cfg.Classify.StripMode == config.StripLegacy {
		mode = classify.StripLegacy
	}
	cls := classify.New(cfg.Classify.Aggregators, classify.WithStripMode(mode))

	r := &Runner{
		Classifier: cls,
		Composer:   outreach.New(cfg.Outreach.Brand),
		Region:     cfg.Places.Region,
		Metrics:    m,
		Log:        log.Named("pipeline"),
	}
	if j.APIKey != "" {
		r.Places = places.New(places.Config{
			BaseURL: cfg.Places.BaseURL,
			APIKey:  j.APIKey,
			Timeout: cfg.Places.Timeout,
		}, log.Named("places"))
		r.Pacer = pace.NewInterval(cfg.Places.MinInterval)
		if cfg.Probe.Enabled {
			r.Prober = probe.New(cls, cfg.Probe.Timeout)
		}
	}
	return r
}

// lockOutput takes an advisory lock next to the output file so two runs
// cannot write the same report at once.
func lockOutput(output string) (func(), error) {
	lockPath := output + ".lock"
	fl := flock.New(lockPath)
	ok, err := fl.TryLock()
	if err != nil {
		return nil, &domain.OpError{Op: "report.lock", Kind: domain.KindOutput, Path: lockPath, Err: err}
	}
	if !ok {
		return nil, &domain.OpError{Op: "report.lock", Kind: domain.KindOutputLocked, Path: lockPath}
	}
	return func() {
		_ = fl.Unlock()
		_ = os.Remove(lockPath)
	}, nil
}

func exportSQLite(ctx context.Context, path, input string, rep Report) error {
	db, err := store.Open(path)
	if err != nil {
		return err
	}
	defer db.Close()

	return store.SaveRun(ctx, db.Pool, store.Run{
		ID:         rep.RunID,
		StartedAt:  rep.StartedAt,
		FinishedAt: rep.FinishedAt,
		Input:      input,
		Offline:    rep.Offline,
	}, rep.Rows)
}
