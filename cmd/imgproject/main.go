package main

import (
	"flag"
	"fmt"
	"image"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/pspoerri/mapproj/internal/config"
	"github.com/pspoerri/mapproj/internal/coord"
	"github.com/pspoerri/mapproj/internal/encode"
	"github.com/pspoerri/mapproj/internal/geom"
	"github.com/pspoerri/mapproj/internal/logging"
	"github.com/pspoerri/mapproj/internal/reproject"
	"github.com/pspoerri/mapproj/internal/worldfile"
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
		projKey     string
		toKey       string
		direction   string
		format      string
		quality     int
		worldPath   string
		verbose     bool
		showVersion bool
	)

	fs := flag.NewFlagSet("imgproject", flag.ContinueOnError)
	fs.StringVar(&configPath, "config", "", "Settings file with log options and named projections (default: ./mapproj.yaml if present)")
	fs.StringVar(&projKey, "proj", "", "Projection: id from -config, EPSG code (e.g. EPSG:32632) or display name")
	fs.StringVar(&toKey, "to", "", "Reproject from -proj to this projection instead of projecting from/to geographic")
	fs.StringVar(&direction, "direction", "forward", "forward (lon/lat to map) or backward (map to lon/lat); ignored with -to")
	fs.StringVar(&format, "format", "", "Output encoding: jpeg, png, webp (default: from output extension)")
	fs.IntVar(&quality, "quality", 85, "JPEG/WebP quality 1-100 (WebP 100 is lossless)")
	fs.StringVar(&worldPath, "world", "", "World file of the input (default: sidecar next to the input)")
	fs.BoolVar(&verbose, "verbose", false, "Verbose progress output")
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: imgproject [flags] <input image> <output image>\n\n")
		fmt.Fprintf(fs.Output(), "Resample a world-file referenced image into another projection.\n")
		fmt.Fprintf(fs.Output(), "A world file for the output is written next to it.\n\n")
		fmt.Fprintf(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	if showVersion {
		fmt.Fprintf(stdout, "imgproject %s (commit %s, built %s)\n", version, commit, buildDate)
		return nil
	}

	if fs.NArg() != 2 || projKey == "" {
		fs.Usage()
		return errUsage
	}
	inputPath, outputPath := fs.Arg(0), fs.Arg(1)
	if inputPath == outputPath {
		return errors.New("input and output paths must be different")
	}

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

	if format == "" {
		if format, err = encode.FormatFromPath(outputPath); err != nil {
			return errors.Wrap(err, "output format (use -format)")
		}
	}
	enc, err := encode.NewEncoder(format, quality)
	if err != nil {
		return errors.Wrap(err, "encoder")
	}

	start := time.Now()
	img, srcFormat, err := encode.ReadFile(inputPath)
	if err != nil {
		return errors.Wrap(err, "reading input")
	}
	if worldPath == "" {
		if worldPath = worldfile.Find(inputPath); worldPath == "" {
			return errors.Newf("no world file found for %s (use -world)", inputPath)
		}
	}
	wf, err := worldfile.Parse(worldPath)
	if err != nil {
		return errors.Wrap(err, "world file")
	}
	size := img.Bounds()
	src := &geom.Raster{Image: img, Bound: wf.Bound(size.Dx(), size.Dy())}

	if verbose {
		log.Printf("Opened %s: %dx%d %s, bounds [%.6f,%.6f,%.6f,%.6f]",
			inputPath, size.Dx(), size.Dy(), srcFormat,
			src.Bound.Min.X(), src.Bound.Min.Y(), src.Bound.Max.X(), src.Bound.Max.Y())
	}

	var dst *geom.Raster
	switch {
	case to != nil:
		dst, err = reproject.ReprojectImage(proj, to, src)
	case direction == "backward":
		dst, err = reproject.BackwardImage(proj, src)
	default:
		dst, err = reproject.ForwardImage(proj, src)
	}
	if err != nil {
		return errors.Wrap(err, "projecting image")
	}

	data, err := enc.Encode(dst.Image)
	if err != nil {
		return errors.Wrapf(err, "encoding %s", enc.Format())
	}
	out := dst.Image.Bounds()
	if rgba, ok := dst.Image.(*image.RGBA); ok {
		reproject.PutRGBA(rgba)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return errors.Wrap(err, "writing output")
	}

	outWorld := strings.TrimSuffix(outputPath, filepath.Ext(outputPath)) + worldfile.Ext(outputPath)
	if err := worldfile.Write(outWorld, worldfile.FromBound(dst.Bound, out.Dx(), out.Dy())); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "imgproject %s (commit %s, built %s)\n", version, commit, buildDate)
	fmt.Fprintf(stdout, "  %-14s %s (%dx%d %s)\n", "Input:", inputPath, size.Dx(), size.Dy(), srcFormat)
	fmt.Fprintf(stdout, "  %-14s %s\n", "Projection:", describe(proj, to, direction))
	fmt.Fprintf(stdout, "  %-14s %s (%dx%d %s, %s)\n", "Output:", outputPath, out.Dx(), out.Dy(), enc.Format(), humanSize(int64(len(data))))
	fmt.Fprintf(stdout, "  %-14s %s\n", "World file:", outWorld)
	fmt.Fprintf(stdout, "  %-14s %s\n", "Elapsed:", time.Since(start).Round(time.Millisecond))
	return nil
}

func describe(proj, to coord.Projection, direction string) string {
	switch {
	case to != nil:
		return proj.Name() + " → " + to.Name()
	case direction == "backward":
		return proj.Name() + " → geographic"
	default:
		return "geographic → " + proj.Name()
	}
}

func humanSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/float64(GB))
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
