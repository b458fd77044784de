package main

import (
	"flag"
	"strconv"
)

// countFlag counts how many times a boolean flag was given, so -v -v raises
// verbosity twice.
type countFlag int

func (c *countFlag) String() string {
	if c == nil {
		return "0"
	}
	return strconv.Itoa(int(*c))
}

func (c *countFlag) Set(s string) error {
	if s == "" || s == "true" {
		*c++
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	}
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

type options struct {
	verbose         countFlag
	quiet           countFlag
	batch           bool
	cachePath       string
	listSources     bool
	configPath      string
	check           bool
	acceptSubregion bool
	style           string
	lang            string
	stats           bool
}

// newFlagSet registers every flag under its long name and, where it has
// one, its single-letter alias.
func newFlagSet(opts *options) *flag.FlagSet {
	fs := flag.NewFlagSet("isostate", flag.ContinueOnError)

	fs.Var(&opts.verbose, "v", "increase log verbosity (repeatable)")
	fs.Var(&opts.verbose, "verbose", "increase log verbosity (repeatable)")
	fs.Var(&opts.quiet, "q", "decrease log verbosity (repeatable)")
	fs.Var(&opts.quiet, "quiet", "decrease log verbosity (repeatable)")

	fs.BoolVar(&opts.batch, "b", false, "batch mode: no prompts, only exact matches are printed")
	fs.BoolVar(&opts.batch, "batch", false, "batch mode: no prompts, only exact matches are printed")
	fs.StringVar(&opts.cachePath, "c", "", "file to read and store confirmed matches")
	fs.StringVar(&opts.cachePath, "cache", "", "file to read and store confirmed matches")
	fs.BoolVar(&opts.listSources, "l", false, "list available name sources and exit")
	fs.BoolVar(&opts.listSources, "list-sources", false, "list available name sources and exit")
	fs.BoolVar(&opts.acceptSubregion, "a", false, "resolve subregions to their parent code")
	fs.BoolVar(&opts.acceptSubregion, "accept-subregion", false, "resolve subregions to their parent code")

	fs.StringVar(&opts.configPath, "config", "", "YAML or TOML config file")
	fs.BoolVar(&opts.check, "check", false, "check reference data and cache, print a JSON report and exit")
	fs.StringVar(&opts.style, "style", "", "name style used for output (default from config)")
	fs.StringVar(&opts.lang, "lang", "", "language of matching and output names (default from config)")
	fs.BoolVar(&opts.stats, "stats", false, "print session statistics as JSON to stderr on exit")
	return fs
}
