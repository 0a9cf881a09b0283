package main

import (
	"context"
	"fmt"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/conflict"
	"github.com/signadot/xmerge/conflictlog"
)

// readLog returns the conflicts of the log at path, restricted to file when
// it is not empty.
func readLog(ctx context.Context, cfg *MainConfig, path string, db bool, file string) ([]conflict.Conflict, error) {
	if !db {
		cs, err := conflictlog.NewFile(path).Entries(ctx)
		if err != nil || file == "" {
			return cs, err
		}
		var res []conflict.Conflict
		for _, c := range cs {
			if c.RelativeFilePath() == file {
				res = append(res, c)
			}
		}
		return res, nil
	}
	s, err := conflictlog.OpenSQLite("file:"+path, cfg.logger())
	if err != nil {
		return nil, err
	}
	defer s.Close()
	if file != "" {
		return s.ForPath(ctx, file)
	}
	return s.Entries(ctx)
}

func conflictsCmd(cfg *ConflictsConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Conflicts.Parse(cc, args)
	if err != nil {
		cfg.Conflicts.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: conflicts requires a log", cli.ErrUsage)
	}
	cs, err := readLog(cc.Context, cfg.MainConfig, args[0], cfg.DB, cfg.Path)
	if err != nil {
		return err
	}
	for _, c := range cs {
		printConflict(cc.Out, c, cfg.Full)
	}
	return nil
}
