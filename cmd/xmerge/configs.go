package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/signadot/xmerge/merge"
	"github.com/signadot/xmerge/situation"
	"github.com/signadot/xmerge/strategy"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color   bool `cli:"name=color desc='color output'"`
	NoColor bool `cli:"name=nocolor desc='never color output'"`
	Verbose bool `cli:"name=v aliases=verbose desc='log debug messages'"`

	Main *cli.Command
}

// colors reports whether output to w is colored.
func (cfg *MainConfig) colors(w io.Writer) bool {
	switch {
	case cfg.NoColor:
		return false
	case cfg.Color:
		return true
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd())
}

func (cfg *MainConfig) logger() *slog.Logger {
	if cfg.Verbose {
		logLevel.Set(slog.LevelDebug)
	}
	return stderrLog()
}

type strategyOpts struct {
	registry *strategy.Registry
	types    *merge.FileTypes
	records  strategy.RecordsConfig
}

// loadStrategies reads the configuration file at path, or returns the
// defaults when path is empty.
func loadStrategies(path string) (*strategyOpts, error) {
	if path == "" {
		return &strategyOpts{registry: strategy.NewBuilder().MustBuild()}, nil
	}
	c, err := strategy.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	reg, err := c.Registry()
	if err != nil {
		return nil, err
	}
	res := &strategyOpts{registry: reg, records: c.Records}
	if len(c.Mergeable) > 0 {
		res.types = merge.NewFileTypes(c.Mergeable...)
	}
	return res, nil
}

func parsePolicy(s string) (situation.Policy, error) {
	p, err := situation.ParsePolicy(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return p, nil
}

type MergeConfig struct {
	*MainConfig
	Config string `cli:"name=c aliases=config desc='strategy configuration (yaml)'"`
	Policy string `cli:"name=policy desc='conflict winner: a (ours) or b (theirs)'"`
	Path   string `cli:"name=path desc='repository-relative path of the file'"`
	UserX  string `cli:"name=ux desc='id of the user who produced ours'"`
	UserY  string `cli:"name=uy desc='id of the user who produced theirs'"`
	Log    string `cli:"name=log desc='append conflicts to this conflict log'"`
	DB     string `cli:"name=db desc='record conflicts in this sqlite database'"`
	Out    string `cli:"name=o desc='output file (default stdout)'"`

	Merge *cli.Command
}

type DriverConfig struct {
	*MainConfig
	Config string `cli:"name=c aliases=config desc='strategy configuration (yaml)'"`
	Policy string `cli:"name=policy desc='conflict winner: a (ours) or b (theirs)'"`
	DB     string `cli:"name=db desc='also record conflicts in this sqlite database'"`

	Driver *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Config string `cli:"name=c aliases=config desc='strategy configuration (yaml)'"`

	Diff *cli.Command
}

type RecordsConfig struct {
	*MainConfig
	Tag string `cli:"name=tag desc='record element tag (default rt)'"`
	ID  string `cli:"name=id desc='record id attribute (default guid)'"`

	Records *cli.Command
}

type ConflictsConfig struct {
	*MainConfig
	DB   bool   `cli:"name=db desc='the log is a sqlite database'"`
	Path string `cli:"name=path desc='only conflicts in this file'"`
	Full bool   `cli:"name=f aliases=full desc='print full descriptions'"`

	Conflicts *cli.Command
}

type ShowConfig struct {
	*MainConfig
	DB     bool   `cli:"name=db desc='the log is a sqlite database'"`
	Repo   string `cli:"name=repo desc='repository directory'"`
	Source string `cli:"name=source desc='contributor: ours, theirs or ancestor'"`

	Show *cli.Command
}
