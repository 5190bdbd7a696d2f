package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/pspoerri/mapproj/internal/config"
	"github.com/pspoerri/mapproj/internal/coord"
	"github.com/pspoerri/mapproj/internal/geom"
	"github.com/pspoerri/mapproj/internal/logging"
	"github.com/pspoerri/mapproj/internal/reproject"
)

// Set via -ldflags at build time.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

var errUsage = errors.New("usage")

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			os.Exit(1)
		}
		log.Fatalf("%v", err)
	}
}

func run(args []string, stdin io.Reader, stdout io.Writer) error {
	var (
		configPath  string
		projKey     string
		toKey       string
		direction   string
		bboxArg     string
		outputPath  string
		verbose     bool
		showVersion bool
	)

	fs := flag.NewFlagSet("geoproject", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Settings file with log options and named projections (default: ./mapproj.yaml if present)")
	fs.StringVar(&projKey, "proj", "", "Projection: id from -config, EPSG code (e.g. EPSG:27700) or display name")
	fs.StringVar(&toKey, "to", "", "Reproject from -proj to this projection instead of projecting from/to geographic")
	fs.StringVar(&direction, "direction", "forward", "forward (lon/lat to map) or backward (map to lon/lat); ignored with -to")
	fs.StringVar(&bboxArg, "bbox", "", "Keep features intersecting minx,miny,maxx,maxy in output coordinates")
	fs.StringVar(&outputPath, "o", "-", "Output GeoJSON file (- for stdout)")
	fs.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: geoproject [flags] <input.geojson|->\n\n")
		fmt.Fprintf(fs.Output(), "Project every feature of a GeoJSON FeatureCollection.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if showVersion {
		fmt.Fprintf(stdout, "geoproject %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	if fs.NArg() != 1 || projKey == "" {
		fs.Usage()
		return errUsage
	}
	inputPath := fs.Arg(0)

	settings, err := config.Load(configPath)
	if err != nil {
		return errors.Wrap(err, "config")
	}
	logging.Setup(settings.LogLevel, settings.LogFormat)

	proj, err := coord.Resolve(projKey, settings)
	if err != nil {
		return errors.Wrap(err, "projection")
	}
	var to coord.Projection
	if toKey != "" {
		if to, err = coord.Resolve(toKey, settings); err != nil {
			return errors.Wrap(err, "target projection")
		}
	} else if direction != "forward" && direction != "backward" {
		return errors.Newf("direction must be forward or backward, got %q", direction)
	}

	var query orb.Bound
	if bboxArg != "" {
		if query, err = parseBBox(bboxArg); err != nil {
			return errors.Wrap(err, "bounding box")
		}
	}

	start := time.Now()
	var data []byte
	if inputPath == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(inputPath)
	}
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return errors.Wrapf(err, "parsing %s", inputPath)
	}
	if verbose {
		log.Printf("Read %d features from %s", len(fc.Features), inputPath)
	}

	if u, ok := proj.(*coord.UTM); ok && to == nil && direction == "forward" {
		followZone(u, fc)
	}

	idx := geom.NewIndex()
	shapes := make([]*geom.Shape, len(fc.Features))
	for i, f := range fc.Features {
		s, err := geom.New(f.Geometry)
		if err != nil {
			slog.Warn("skipping feature", "index", i, "id", f.ID, "error", err)
			continue
		}
		switch {
		case to != nil:
			err = reproject.Reproject(proj, to, s)
		case direction == "backward":
			err = reproject.Backward(proj, s)
		default:
			err = reproject.Forward(proj, s)
		}
		if err != nil {
			return errors.Wrapf(err, "feature %d", i)
		}
		shapes[i] = s
		idx.Insert(i, s)
	}

	out := geojson.NewFeatureCollection()
	out.ExtraMembers = fc.ExtraMembers
	keep := func(i int) {
		f := fc.Features[i]
		f.Geometry = shapes[i].Geometry()
		if len(f.BBox) != 0 {
			f.BBox = geojson.NewBBox(shapes[i].Envelope())
		}
		out.Append(f)
	}
	if bboxArg != "" {
		for _, hit := range idx.Search(query) {
			keep(hit.ID)
		}
	} else {
		for i := range fc.Features {
			if shapes[i] != nil {
				keep(i)
			}
		}
	}
	if b, ok := collectionBound(out); ok && len(fc.BBox) != 0 {
		out.BBox = geojson.NewBBox(b)
	}

	encoded, err := out.MarshalJSON()
	if err != nil {
		return errors.Wrap(err, "encoding GeoJSON")
	}
	encoded = append(encoded, '\n')
	if outputPath == "-" {
		_, err = stdout.Write(encoded)
	} else {
		err = os.WriteFile(outputPath, encoded, 0o644)
	}
	if err != nil {
		return errors.Wrap(err, "writing output")
	}

	if verbose {
		log.Printf("Wrote %d of %d features to %s in %s",
			len(out.Features), len(fc.Features), outputPath, time.Since(start).Round(time.Millisecond))
	}
	return nil
}

// followZone moves a follow-map UTM projection to the zone under the centre
// of the input features.
func followZone(u *coord.UTM, fc *geojson.FeatureCollection) {
	if !u.FollowMap() {
		return
	}
	b, ok := collectionBound(fc)
	if !ok {
		return
	}
	view, err := reproject.ForwardEnvelope(u, b)
	if err != nil {
		slog.Warn("utm follow map: cannot project input envelope", "error", err)
		return
	}
	changed, err := u.Follow(view)
	if err != nil {
		slog.Warn("utm follow map", "error", err)
		return
	}
	if changed {
		slog.Info("utm zone changed to follow input", "zone", u.Zone())
	}
}

// collectionBound returns the bound of all feature geometries and false if
// no feature has one.
func collectionBound(fc *geojson.FeatureCollection) (orb.Bound, bool) {
	var b orb.Bound
	first := true
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if first {
			b, first = fb, false
			continue
		}
		b = b.Union(fb)
	}
	return b, !first
}

func parseBBox(s string) (orb.Bound, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return orb.Bound{}, errors.Newf("want minx,miny,maxx,maxy, got %q", s)
	}
	var v [4]float64
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return orb.Bound{}, errors.Wrapf(err, "value %d", i+1)
		}
		v[i] = f
	}
	return geom.NewBound(v[0], v[1], v[2], v[3]), nil
}
