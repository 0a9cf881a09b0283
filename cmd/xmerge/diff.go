package main

import (
	"fmt"
	"path/filepath"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/merge"
	"github.com/signadot/xmerge/situation"
)

func diffCmd(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires old and new", cli.ErrUsage)
	}
	sopts, err := loadStrategies(cfg.Config)
	if err != nil {
		return err
	}
	data, err := readFiles(args...)
	if err != nil {
		return err
	}
	sit := situation.New(filepath.Base(args[1]), "new", args[1], "old", args[0], args[0], situation.AWins)
	p := newPrinter(cc.Out, cfg.colors(cc.Out), true)
	m := merge.New(sit, sopts.registry, p, merge.WithLogger(cfg.logger()))
	return m.DiffFile(data[0], data[1])
}
