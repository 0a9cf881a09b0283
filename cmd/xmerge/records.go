package main

import (
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/recdiff"
	"github.com/signadot/xmerge/repo"
)

func recordsCmd(cfg *RecordsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Records.Parse(cc, args)
	if err != nil {
		cfg.Records.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: records requires old and new", cli.ErrUsage)
	}
	data, err := readFiles(args...)
	if err != nil {
		return err
	}
	d := recdiff.New(newPrinter(cc.Out, cfg.colors(cc.Out), false),
		recdiff.WithTag(cfg.Tag), recdiff.WithIDAttr(cfg.ID), recdiff.WithLogger(cfg.logger()))
	parent := repo.FileInRevision{FullPath: args[0], Action: repo.ActionModified}
	child := repo.FileInRevision{FullPath: args[1], Action: repo.ActionModified}
	return d.Diff(parent, child, data[0], data[1])
}
