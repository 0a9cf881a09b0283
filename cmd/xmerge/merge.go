package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/conflictlog"
	"github.com/signadot/xmerge/merge"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
)

func readFiles(paths ...string) ([][]byte, error) {
	res := make([][]byte, len(paths))
	for i, p := range paths {
		d, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("error reading %s: %w", p, err)
		}
		res[i] = d
	}
	return res, nil
}

// conflictSinks opens the conflict logs named by file and db and returns
// their writers and a function closing them.
func conflictSinks(ctx context.Context, file, db string, cfg *MainConfig) ([]*sink.LogWriter, func() error, error) {
	var logs []conflictlog.Log
	if file != "" {
		logs = append(logs, conflictlog.NewFile(file))
	}
	if db != "" {
		s, err := conflictlog.OpenSQLite("file:"+db, cfg.logger())
		if err != nil {
			return nil, nil, err
		}
		logs = append(logs, s)
	}
	var ws []*sink.LogWriter
	for _, l := range logs {
		ws = append(ws, sink.NewLogWriter(ctx, l))
	}
	closeAll := func() error {
		var errs []error
		for _, w := range ws {
			errs = append(errs, w.Err(), w.Log.Close())
		}
		return errors.Join(errs...)
	}
	return ws, closeAll, nil
}

func mergeCmd(cfg *MergeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Merge.Parse(cc, args)
	if err != nil {
		cfg.Merge.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 3 {
		return fmt.Errorf("%w: merge requires ours, theirs and ancestor", cli.ErrUsage)
	}
	policy, err := parsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	sopts, err := loadStrategies(cfg.Config)
	if err != nil {
		return err
	}
	data, err := readFiles(args...)
	if err != nil {
		return err
	}
	path := cfg.Path
	if path == "" {
		path = filepath.Base(args[0])
	}
	sit := situation.New(path, cfg.UserX, args[0], cfg.UserY, args[1], args[2], policy)

	ws, closeLogs, err := conflictSinks(cc.Context, cfg.Log, cfg.DB, cfg.MainConfig)
	if err != nil {
		return err
	}
	listeners := sink.Multi{newPrinter(os.Stderr, cfg.colors(os.Stderr), cfg.Verbose)}
	for _, w := range ws {
		listeners = append(listeners, w)
	}

	m := merge.New(sit, sopts.registry, listeners,
		merge.WithLogger(cfg.logger()), merge.WithFileTypes(sopts.types))
	res, err := m.MergeFile(data[0], data[1], data[2])
	if cerr := closeLogs(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	if cfg.Out != "" && cfg.Out != "-" {
		if err := os.WriteFile(cfg.Out, res.Content, 0o644); err != nil {
			return err
		}
	} else if _, err := cc.Out.Write(res.Content); err != nil {
		return err
	}
	cfg.logger().Info("merged", "path", path, "changes", res.Changes, "conflicts", res.Conflicts)
	return nil
}
