package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/btr-engine/backend/internal/astro"
	"github.com/btr-engine/backend/internal/search"
	"github.com/btr-engine/backend/internal/storage/sqlite"
	"github.com/btr-engine/backend/pkg/config"
	"github.com/btr-engine/backend/pkg/logger"
)

type options struct {
	date      string
	clock     string
	tz        float64
	latitude  float64
	longitude float64
	name      string
	gender    string
	sound     string
	arudha    int
	native    string
	dbPath    string
	output    string
	verbose   bool

	cfg    *config.Config
	engine *search.Engine
}

const autoArudha = -1

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "btr",
		Short: "Vedic birth time rectification",
		Long: `btr calculates the sidereal chart for a birth time and runs the
rectification checks (Ketu link, name sound, Pranapada, Arudha) over it.

Birth data comes from flags, or from a saved native with --native. Location
and time zone default to the configured defaults.

Example:
  btr chart --date 1985-05-20 --time 14:30:15 --tz 5.5 --lat 13.6288 --lon 79.4192
  btr sweep --native 3f6c... --output json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			if err := logger.Init(level, "console", "stderr"); err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.engine = search.NewEngine(astro.NewEphemeris())

			switch opts.output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (table, json, yaml)", opts.output)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.date, "date", "", "birth date (YYYY-MM-DD)")
	pf.StringVar(&opts.clock, "time", "", "local birth time (HH:MM[:SS])")
	pf.Float64Var(&opts.tz, "tz", 0, "UTC offset in hours (default from config)")
	pf.Float64Var(&opts.latitude, "lat", 0, "latitude in degrees, north positive (default from config)")
	pf.Float64Var(&opts.longitude, "lon", 0, "longitude in degrees, east positive (default from config)")
	pf.StringVar(&opts.name, "name", "", "name used for the sound check")
	pf.StringVar(&opts.gender, "gender", "male", "gender to match (male, female)")
	pf.StringVar(&opts.sound, "sound", "", "force a Hoda cakra sound instead of deriving it from the name")
	pf.IntVar(&opts.arudha, "arudha", autoArudha, "force the Arudha Lagna sign 0-11 (-1 computes it)")
	pf.StringVar(&opts.native, "native", "", "use a saved native by ID")
	pf.StringVar(&opts.dbPath, "db", "", "natives database path (default from config)")
	pf.StringVarP(&opts.output, "output", "o", outputTable, "output format: table, json, yaml")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging to stderr")

	root.AddCommand(
		newChartCmd(opts),
		newAutoCorrectCmd(opts),
		newSweepCmd(opts),
		newAutoFixCmd(opts),
		newMicroScanCmd(opts),
		newTimelineCmd(opts),
		newAuditCmd(opts),
		newMarriageCmd(opts),
		newSoundsCmd(opts),
		newNativesCmd(opts),
	)

	return root
}

func (o *options) databasePath() string {
	if o.dbPath != "" {
		return o.dbPath
	}
	return o.cfg.SQLite.Path
}

func (o *options) openStore() (*sqlite.Client, error) {
	path := o.databasePath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	store, err := sqlite.NewClient(path)
	if err != nil {
		return nil, err
	}
	if err := store.InitSchema(); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

// request assembles the birth request from a saved native or from flags.
// Location flags left unset fall back to the configured defaults.
func (o *options) request(cmd *cobra.Command) (search.Request, error) {
	if o.native != "" {
		store, err := o.openStore()
		if err != nil {
			return search.Request{}, err
		}
		defer store.Close()

		n, err := store.GetNative(o.native)
		if err != nil {
			return search.Request{}, fmt.Errorf("failed to load native %s: %w", o.native, err)
		}
		return n.Request(), nil
	}

	flags := cmd.Flags()
	tz, lat, lon := o.tz, o.latitude, o.longitude
	if !flags.Changed("tz") {
		tz = o.cfg.Defaults.TZOffset
	}
	if !flags.Changed("lat") {
		lat = o.cfg.Defaults.Latitude
	}
	if !flags.Changed("lon") {
		lon = o.cfg.Defaults.Longitude
	}

	req := search.Request{
		Date:        strings.TrimSpace(o.date),
		Time:        strings.TrimSpace(o.clock),
		TZOffset:    &tz,
		Latitude:    &lat,
		Longitude:   &lon,
		Name:        o.name,
		Gender:      o.gender,
		ForcedSound: o.sound,
	}
	if o.arudha != autoArudha {
		al := o.arudha
		req.ForcedArudha = &al
	}
	return req, nil
}

func (o *options) input(cmd *cobra.Command) (*search.Input, error) {
	req, err := o.request(cmd)
	if err != nil {
		return nil, err
	}
	in, err := req.Validate()
	if err != nil {
		return nil, err
	}
	logger.Debug("Birth input",
		zap.Time("instant", in.Instant),
		zap.Float64("tz_offset", in.TZOffset),
		zap.Float64("latitude", in.Observer.Latitude),
		zap.Float64("longitude", in.Observer.Longitude),
	)
	return in, nil
}
