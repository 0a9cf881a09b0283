package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "xmerge").
		WithSynopsis("xmerge [opts] command [opts]").
		WithDescription("xmerge diffs and merges xml data files structurally.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return xmergeMain(cfg, cc, args)
		}).
		WithSubs(
			MergeCommand(cfg),
			DriverCommand(cfg),
			DiffCommand(cfg),
			RecordsCommand(cfg),
			ConflictsCommand(cfg),
			ShowCommand(cfg))
}

func MergeCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &MergeConfig{MainConfig: mainCfg, Policy: "a", UserX: "ours", UserY: "theirs"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Merge, "merge").
		WithAliases("m").
		WithSynopsis("merge [opts] ours theirs ancestor").
		WithDescription("three-way merge of one file, written to stdout or -o").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return mergeCmd(cfg, cc, args)
		})
}

func DriverCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DriverConfig{MainConfig: mainCfg, Policy: "a"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Driver, "driver").
		WithSynopsis("driver [opts] ancestor ours theirs path").
		WithDescription("git merge driver: merge.xmerge.driver = xmerge driver %O %A %B %P").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return driverCmd(cfg, cc, args)
		})
}

func DiffCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DiffConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Diff, "diff").
		WithAliases("d").
		WithSynopsis("diff [opts] old new").
		WithDescription("report structural changes from old to new").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return diffCmd(cfg, cc, args)
		})
}

func RecordsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &RecordsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Records, "records").
		WithAliases("r").
		WithSynopsis("records [opts] old new").
		WithDescription("report added, deleted and changed records of flat record files").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return recordsCmd(cfg, cc, args)
		})
}

func ConflictsCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConflictsConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Conflicts, "conflicts").
		WithAliases("c").
		WithSynopsis("conflicts [opts] log").
		WithDescription("list the conflicts recorded in a conflict log").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return conflictsCmd(cfg, cc, args)
		})
}

func ShowCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShowConfig{MainConfig: mainCfg, Repo: ".", Source: "theirs"}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Show, "show").
		WithSynopsis("show [opts] log guid").
		WithDescription("show the record a contributor had for a logged conflict, read from the repository").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return showCmd(cfg, cc, args)
		})
}
