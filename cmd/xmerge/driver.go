package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/merge"
	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/sink"
	"github.com/signadot/xmerge/situation"
)

// driverCmd runs as a git merge driver. The merged content replaces ours
// and conflicts are appended to a log beside the file.
func driverCmd(cfg *DriverConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Driver.Parse(cc, args)
	if err != nil {
		cfg.Driver.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 4 {
		return fmt.Errorf("%w: driver requires ancestor, ours, theirs and path", cli.ErrUsage)
	}
	policy, err := parsePolicy(cfg.Policy)
	if err != nil {
		return err
	}
	sopts, err := loadStrategies(cfg.Config)
	if err != nil {
		return err
	}
	ancPath, oursPath, theirsPath, path := args[0], args[1], args[2], args[3]
	data, err := readFiles(ancPath, oursPath, theirsPath)
	if err != nil {
		return err
	}
	logger := cfg.logger()
	head := ""
	if h, err := repo.NewGit(".", logger).Head(cc.Context); err == nil {
		head = h
	}
	sit := situation.New(path, "ours", head, "theirs", "MERGE_HEAD", "", policy)

	ws, closeLogs, err := conflictSinks(cc.Context, path+".conflicts", cfg.DB, cfg.MainConfig)
	if err != nil {
		return err
	}
	listeners := sink.Multi{sink.Logger{L: logger}}
	for _, w := range ws {
		listeners = append(listeners, w)
	}
	jobs := []merge.Job{{
		Situation: sit,
		Registry:  sopts.registry,
		Listener:  listeners,
		Ancestor:  data[0],
		Ours:      data[1],
		Theirs:    data[2],
	}}
	results, err := merge.Batch(cc.Context, jobs, 1, merge.WithLogger(logger), merge.WithFileTypes(sopts.types))
	if cerr := closeLogs(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}
	res := results[0]
	if res.Failure != nil {
		logger.Warn("file kept whole", "path", path, "error", res.Failure)
	}
	return os.WriteFile(oursPath, res.Content, 0o644)
}
