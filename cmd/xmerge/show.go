package main

import (
	"fmt"
	"strings"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/repo"
	"github.com/signadot/xmerge/situation"
)

func showCmd(cfg *ShowConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Show.Parse(cc, args)
	if err != nil {
		cfg.Show.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: show requires a log and a conflict guid", cli.ErrUsage)
	}
	src, err := situation.ParseSource(cfg.Source)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	cs, err := readLog(cc.Context, cfg.MainConfig, args[0], cfg.DB, "")
	if err != nil {
		return err
	}
	for _, c := range cs {
		if !strings.EqualFold(c.ID(), args[1]) {
			continue
		}
		rec, err := c.ConflictingRecord(cc.Context, repo.NewGit(cfg.Repo, cfg.logger()), src)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cc.Out, rec)
		return err
	}
	return fmt.Errorf("no conflict %s in %s", args[1], args[0])
}
