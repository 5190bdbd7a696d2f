package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
	"github.com/pspoerri/mapproj/internal/coord"
	"github.com/pspoerri/mapproj/internal/logging"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		configPath  string
		lat         float64
		lon         float64
		digits      int
		parse       string
		showVersion bool
	)

	fs := flag.NewFlagSet("gridref", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Settings file with log options (default: ./mapproj.yaml if present)")
	fs.Float64Var(&lat, "lat", math.NaN(), "Latitude in decimal degrees (OSGB36)")
	fs.Float64Var(&lon, "lon", math.NaN(), "Longitude in decimal degrees (OSGB36)")
	fs.IntVar(&digits, "digits", 10, "Total digits of the grid reference: 0, 2, 4, 6, 8 or 10")
	fs.StringVar(&parse, "parse", "", "Grid reference to convert back, e.g. \"TG 51409 13177\"")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: gridref -lat <deg> -lon <deg> [-digits n]\n")
		fmt.Fprintf(fs.Output(), "       gridref -parse <grid reference>\n\n")
		fmt.Fprintf(fs.Output(), "Convert between latitude/longitude and British National Grid references.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if showVersion {
		fmt.Fprintf(stdout, "gridref %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	settings, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	logging.Setup(settings.LogLevel, settings.LogFormat)

	grid := coord.NewNationalGrid()

	if parse != "" {
		e, n, err := coord.ParseGridReference(parse)
		if err != nil {
			return errors.Wrap(err, "parsing")
		}
		lon, lat, err := grid.Backward(e, n)
		if err != nil {
			return errors.Wrap(err, "converting")
		}
		fmt.Fprintf(stdout, "  %-14s %.0f\n", "Easting:", e)
		fmt.Fprintf(stdout, "  %-14s %.0f\n", "Northing:", n)
		fmt.Fprintf(stdout, "  %-14s %.7f\n", "Latitude:", lat)
		fmt.Fprintf(stdout, "  %-14s %.7f\n", "Longitude:", lon)
		return nil
	}

	if math.IsNaN(lat) || math.IsNaN(lon) {
		fs.Usage()
		return errUsage
	}
	e, n, err := grid.Forward(lon, lat)
	if err != nil {
		return errors.Wrap(err, "converting")
	}
	ref, err := grid.GridReference(e, n, digits)
	if err != nil {
		return errors.Wrap(err, "grid reference")
	}
	fmt.Fprintf(stdout, "  %-14s %.3f\n", "Easting:", e)
	fmt.Fprintf(stdout, "  %-14s %.3f\n", "Northing:", n)
	fmt.Fprintf(stdout, "  %-14s %s\n", "Reference:", ref)
	return nil
}
