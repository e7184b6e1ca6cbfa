package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shopscout-engine/internal/config"
	"shopscout-engine/internal/domain"
	"shopscout-engine/internal/logging"
	"shopscout-engine/internal/pipeline"
	"shopscout-engine/internal/secrets"
)

// Env carries the process surroundings so tests can run the commands
// without touching the real environment.
type Env struct {
	Lookup secrets.LookupEnv
	Stdout io.Writer
	Stderr io.Writer
}

func Execute() {
	cmd := NewRootCmd(Env{})
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func NewRootCmd(env Env) *cobra.Command {
	if env.Lookup == nil {
		env.Lookup = os.LookupEnv
	}
	if env.Stdout == nil {
		env.Stdout = os.Stdout
	}
	if env.Stderr == nil {
		env.Stderr = os.Stderr
	}

	var files pipeline.Files

	cmd := &cobra.Command{
		Use:          "shopscout",
		Short:        "Classify pizza shops by how customers order online",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, env, files)
		},
	}
	cmd.SetOut(env.Stdout)
	cmd.SetErr(env.Stderr)

	cmd.Flags().StringVar(&files.Input, "input", "", "Workbook with the shop list (.xlsx)")
	cmd.Flags().StringVar(&files.Output, "output", "", "CSV report destination")
	cmd.Flags().StringVar(&files.Messages, "messages", "", "Optional CSV destination for outreach messages")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	cmd.AddCommand(keyCmd(env), configCmd(env))
	return cmd
}

func run(cmd *cobra.Command, env Env, files pipeline.Files) error {
	log, err := logging.New(envSet(env.Lookup, "SHOPSCOUT_DEBUG"))
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	dataDir := dataDir(env.Lookup)
	cfg, err := loadConfig(dataDir, log)
	if err != nil {
		return err
	}

	key, src := secrets.APIKey(env.Lookup, cfg.Credentials.EnvVar, cfg.Credentials.KeyringAccount)
	if src != secrets.SourceNone {
		log.Debug("api key loaded", zap.String("source", string(src)))
	}

	rep, err := pipeline.Job{
		Cfg:    cfg,
		APIKey: key,
		Log:    log,
		Stdout: env.Stdout,
	}.Execute(cmd.Context(), files)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return err
	}

	fmt.Fprintf(env.Stdout, "Analyzed %d shops (%s). Report written to %s\n",
		len(rep.Rows), summarize(rep.Counts), files.Output)
	if files.Messages != "" {
		fmt.Fprintf(env.Stdout, "Outreach messages written to %s\n", files.Messages)
	}
	return nil
}

func loadConfig(dataDir string, log *zap.Logger) (config.Config, error) {
	cfg, path, err := config.LoadFromDir(dataDir)
	if err != nil {
		return config.Config{}, &domain.OpError{Op: "config.load", Kind: domain.KindInvalidConfig, Path: path, Err: err}
	}

	if f := cfg.Classify.AggregatorsFile; f != "" {
		if !filepath.IsAbs(f) {
			f = filepath.Join(dataDir, f)
		}
		if err := config.OverlayAggregators(&cfg, f); err != nil {
			return config.Config{}, &domain.OpError{Op: "config.aggregators", Kind: domain.KindInvalidConfig, Path: f, Err: err}
		}
	}

	cfg, v := config.NormalizeAndValidate(cfg)
	for _, w := range v.Warnings {
		log.Warn("config", zap.String("path", path), zap.String("warning", w))
	}
	if !v.OK() {
		return config.Config{}, &domain.OpError{
			Op:   "config.validate",
			Kind: domain.KindInvalidConfig,
			Path: path,
			Err:  errors.New(strings.Join(v.Errors, "\n")),
		}
	}
	return cfg, nil
}

// dataDir holds config.yml; defaults to the working directory.
func dataDir(lookup secrets.LookupEnv) string {
	if v, ok := lookup("SHOPSCOUT_DATA_DIR"); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return "."
}

func envSet(lookup secrets.LookupEnv, key string) bool {
	v, ok := lookup(key)
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "0", "false", "no":
		return false
	}
	return true
}

func summarize(counts map[string]int) string {
	if len(counts) == 0 {
		return "nothing to do"
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%d", k, counts[k]))
	}
	return strings.Join(parts, " ")
}
