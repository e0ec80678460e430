package config

import (
	"flag"
	"io"
	"strings"

	"github.com/soypat/nameplate"
)

type flags struct {
	set     *flag.FlagSet
	config  string
	debug   bool
	out     string
	serials string
	org     string
	count   int
	workers int
	seed    int64
	raised  bool
	save    string
}

func newFlags(output io.Writer) *flags {
	f := &flags{set: flag.NewFlagSet("nameplate", flag.ContinueOnError)}
	f.set.SetOutput(output)
	f.set.StringVar(&f.config, "config", "", "Path to config file")
	f.set.BoolVar(&f.debug, "debug", false, "Enable debug logging")
	f.set.StringVar(&f.out, "out", "", "Output directory")
	f.set.StringVar(&f.serials, "serial", "", "Comma separated serial numbers to build")
	f.set.StringVar(&f.org, "org", "", "Organization name line")
	f.set.IntVar(&f.count, "count", 0, "Number of tags with random serials to build")
	f.set.IntVar(&f.workers, "workers", 0, "Concurrent builds, 0 uses all CPUs")
	f.set.Int64Var(&f.seed, "seed", 0, "Random serial seed")
	f.set.BoolVar(&f.raised, "raised", false, "Raise text instead of insetting it")
	f.set.StringVar(&f.save, "save", "", "Write the resolved config to this path and exit")
	return f
}

// applyFlags applies CLI flag overrides to the config. Only flags present
// on the command line override.
func (f *flags) applyFlags(cfg *Config) {
	f.set.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "debug":
			if f.debug {
				cfg.Logging.Level = "debug"
			}
		case "out":
			cfg.Output.Dir = f.out
		case "serial":
			cfg.Batch.Serials = nil
			for _, s := range strings.Split(f.serials, ",") {
				if s = strings.TrimSpace(s); s != "" {
					cfg.Batch.Serials = append(cfg.Batch.Serials, s)
				}
			}
		case "org":
			cfg.Tag.OrgText = f.org
		case "count":
			cfg.Batch.Count = f.count
		case "workers":
			cfg.Batch.Workers = f.workers
		case "seed":
			cfg.Batch.Seed = f.seed
		case "save":
			cfg.SavePath = f.save
		case "raised":
			if f.raised {
				cfg.Tag.SerialLayout.Style = nameplate.Raised
				cfg.Tag.NameLayout.Style = nameplate.Raised
			}
		}
	})
}
