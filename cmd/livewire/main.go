package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"livewire/internal/models"
	"livewire/pkg/config"
	"livewire/pkg/contour"
	"livewire/pkg/imaging"
	"livewire/pkg/livewire"
	"livewire/pkg/visualization"
)

func main() {
	// Parse command line arguments
	inputFile := flag.String("input", "", "2D slice to trace on (PNG, JPEG or TIFF)")
	configPath := flag.String("config", "livewire.yaml", "YAML configuration file")
	pointList := flag.String("points", "", "World points \"x,y;x,y;...\" (mm); successive pairs are traced and joined")
	dynamic := flag.Bool("dynamic", false, "Learn a cost map from each segment and apply it to the next")
	outputFile := flag.String("output", "", "Contour JSON output (overrides config)")
	overlayFile := flag.String("overlay", "", "Overlay image output, .png or .jpg (overrides config)")
	costPlotFile := flag.String("costplot", "", "Learned cost map plot output (overrides config)")
	initConfig := flag.Bool("init-config", false, "Write a default config file to -config and exit")
	flag.Parse()

	if *initConfig {
		if err := config.CreateDefaultConfigFile(*configPath); err != nil {
			log.Fatalf("Failed to write default config: %v", err)
		}
		fmt.Printf("Default configuration written to %s\n", *configPath)
		return
	}

	// Validate inputs
	if *inputFile == "" || *pointList == "" {
		flag.Usage()
		os.Exit(1)
	}

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *dynamic {
		cfg.LiveWire.UseDynamicCostTransfer = true
	}
	if *outputFile != "" {
		cfg.Output.ContourFile = *outputFile
	}
	if *overlayFile != "" {
		cfg.Output.OverlayFile = *overlayFile
	}
	if *costPlotFile != "" {
		cfg.Output.CostPlotFile = *costPlotFile
	}
	if !cfg.Output.Verbose {
		livewire.SetLogger(nil)
	}

	points, err := parsePoints(*pointList)
	if err != nil {
		log.Fatalf("Invalid -points: %v", err)
	}

	fmt.Printf("Loading %s...\n", *inputFile)
	img, err := imaging.Load(*inputFile, cfg.Image.Spacing, cfg.Image.Origin)
	if err != nil {
		log.Fatalf("Failed to load image: %v", err)
	}
	fmt.Printf("Image size: %dx%d, spacing %.3fx%.3f mm\n",
		img.Width(), img.Height(), cfg.Image.Spacing[0], cfg.Image.Spacing[1])

	startTime := time.Now()
	result, lastMap, err := trace(img, points, cfg)
	if err != nil {
		log.Fatalf("Tracing failed: %v", err)
	}
	fmt.Printf("Traced %d segments, %d vertices, length %.2f mm in %v\n",
		len(points)-1, result.NumberOfVertices(), result.Length(), time.Since(startTime))

	if err := writeContour(result, cfg.Output.ContourFile); err != nil {
		log.Fatalf("Failed to write contour: %v", err)
	}
	fmt.Printf("Contour saved to: %s\n", cfg.Output.ContourFile)

	if cfg.Output.OverlayFile != "" {
		viewer, err := visualization.NewViewer(img)
		if err != nil {
			log.Fatalf("Failed to create viewer: %v", err)
		}
		if err := viewer.SaveImage(viewer.RenderOverlay(result), cfg.Output.OverlayFile); err != nil {
			log.Printf("Warning: Failed to save overlay: %v", err)
		} else {
			fmt.Printf("Overlay saved to: %s\n", cfg.Output.OverlayFile)
		}
	}

	if cfg.Output.CostPlotFile != "" {
		if len(lastMap) == 0 {
			log.Printf("Warning: no cost map was learned, skipping %s (use -dynamic)", cfg.Output.CostPlotFile)
		} else if err := visualization.SaveCostMapPlot(lastMap, "Learned cost map", cfg.Output.CostPlotFile); err != nil {
			log.Printf("Warning: %v", err)
		} else {
			fmt.Printf("Cost map plot saved to: %s\n", cfg.Output.CostPlotFile)
		}
	}
}

// trace runs the filter on every consecutive pair of points and joins the
// segments into one contour. Each user point becomes a control vertex.
func trace(img imaging.Image, points []models.Point3D, cfg *config.Config) (*contour.Contour, livewire.CostMap, error) {
	filter := livewire.NewFilter(cfg.FilterParams())
	filter.SetInput(img)
	filter.SetUseDynamicCostTransferForNextUpdate(cfg.LiveWire.UseDynamicCostTransfer)

	result := contour.New()
	var lastMap livewire.CostMap
	for i := 1; i < len(points); i++ {
		filter.SetStartPoint(points[i-1])
		filter.SetEndPoint(points[i])
		if err := filter.Update(); err != nil {
			return nil, nil, fmt.Errorf("segment %d: %w", i, err)
		}
		segment := filter.Output()
		if segment.IsEmpty() {
			return nil, nil, fmt.Errorf("segment %d: no path found", i)
		}
		if filter.CostFunction().UsesDynamicCostMap() {
			lastMap = filter.CostFunction().DynamicCostMap()
		}

		first := result.IsEmpty()
		result.Concatenate(segment, !first)
		if first {
			result.SetControlPoint(0, true)
		}
		result.SetControlPoint(result.NumberOfVertices()-1, true)
		fmt.Printf("Segment %d: %v -> %v, %d pixels, cost %.3f\n",
			i, filter.StartIndex(), filter.EndIndex(), segment.NumberOfVertices(), filter.PathCost())
	}
	return result, lastMap, nil
}

// parsePoints parses "x,y;x,y;..." into world points on the z=0 plane.
func parsePoints(s string) ([]models.Point3D, error) {
	var points []models.Point3D
	for _, part := range strings.Split(s, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		xy := strings.Split(part, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("point %q must be x,y", part)
		}
		x, err := strconv.ParseFloat(strings.TrimSpace(xy[0]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		y, err := strconv.ParseFloat(strings.TrimSpace(xy[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", part, err)
		}
		points = append(points, models.Point3D{X: x, Y: y})
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("need at least 2 points, got %d", len(points))
	}
	return points, nil
}

func writeContour(c *contour.Contour, path string) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer closeInto(file, path, &err)
	return contour.NewDocument(c).WriteJSON(file)
}

// closeInto closes c and stores its error in *err unless an earlier error
// is already there.
func closeInto(c io.Closer, name string, err *error) {
	if cerr := c.Close(); cerr != nil && *err == nil {
		*err = fmt.Errorf("failed to close %s: %w", name, cerr)
	}
}
