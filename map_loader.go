package main

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// decodeImage opens and decodes any registered image format
func decodeImage(filename string) (image.Image, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", filepath.Base(filename), err)
	}
	return img, nil
}

// grayValue converts a pixel to a 0..255 luminance with the (11, 16, 5)/32 weighting
func grayValue(c color.Color) int {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return (int(n.R)*11 + int(n.G)*16 + int(n.B)*5) / 32
}

// LoadObstacleImage reads an image into an obstacle grid, one gray intensity per pixel
func LoadObstacleImage(filename string) (ObstacleGrid, error) {
	img, err := decodeImage(filename)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	grid := make(ObstacleGrid, b.Dx())
	for x := 0; x < b.Dx(); x++ {
		grid[x] = make([]int, b.Dy())
		for y := 0; y < b.Dy(); y++ {
			grid[x][y] = grayValue(img.At(b.Min.X+x, b.Min.Y+y))
		}
	}

	log.Printf("   ✅ Loaded %dx%d obstacle map from %s\n", b.Dx(), b.Dy(), filepath.Base(filename))
	return grid, nil
}

// LoadCostImage reads an image into a cost distribution, gray/255 per pixel
func LoadCostImage(filename string) (CostGrid, error) {
	img, err := decodeImage(filename)
	if err != nil {
		return nil, err
	}

	b := img.Bounds()
	grid := make(CostGrid, b.Dx())
	for x := 0; x < b.Dx(); x++ {
		grid[x] = make([]float64, b.Dy())
		for y := 0; y < b.Dy(); y++ {
			grid[x][y] = float64(grayValue(img.At(b.Min.X+x, b.Min.Y+y))) / 255.0
		}
	}

	log.Printf("   ✅ Loaded %dx%d cost distribution from %s\n", b.Dx(), b.Dy(), filepath.Base(filename))
	return grid, nil
}

// LoadObstaclePolygons rasterises the Polygon and MultiPolygon features of a GeoJSON
// file (in grid coordinates) into a width x height grid. A cell is blocked when its
// centre lies inside any polygon.
func LoadObstaclePolygons(filename string, width, height int) (ObstacleGrid, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(filename), err)
	}

	var polygons []orb.Polygon
	for i, feature := range fc.Features {
		switch g := feature.Geometry.(type) {
		case orb.Polygon:
			polygons = append(polygons, g)
		case orb.MultiPolygon:
			polygons = append(polygons, g...)
		case nil:
			log.Printf("⚠️  Skipping feature %d of %s: no geometry\n", i, filepath.Base(filename))
		default:
			log.Printf("⚠️  Skipping feature %d of %s: unsupported geometry %s\n", i, filepath.Base(filename), feature.Geometry.GeoJSONType())
		}
	}

	grid := NewObstacleGrid(width, height)
	for _, polygon := range polygons {
		RasterizePolygon(grid, polygon)
	}

	log.Printf("   ✅ Loaded %d obstacle polygons from %s\n", len(polygons), filepath.Base(filename))
	return grid, nil
}

// RasterizePolygon marks every cell whose centre falls inside polygon as occupied
func RasterizePolygon(grid ObstacleGrid, polygon orb.Polygon) {
	if len(polygon) == 0 {
		return
	}

	bound := polygon.Bound()
	x0, y0 := max(int(bound.Min.X()), 0), max(int(bound.Min.Y()), 0)
	x1, y1 := min(int(bound.Max.X()), grid.Width()-1), min(int(bound.Max.Y()), grid.Height()-1)

	for x := x0; x <= x1; x++ {
		for y := y0; y <= y1; y++ {
			centre := orb.Point{float64(x) + 0.5, float64(y) + 0.5}
			if planar.PolygonContains(polygon, centre) {
				grid[x][y] = 0
			}
		}
	}
}

// LoadObstacleMap builds the obstacle grid a config asks for: an all-free grid, a
// rasterised GeoJSON file, or an image.
func LoadObstacleMap(cfg Config) (ObstacleGrid, error) {
	switch {
	case cfg.MapFile == "":
		return NewObstacleGrid(cfg.MapWidth, cfg.MapHeight), nil
	case isGeoJSON(cfg.MapFile):
		return LoadObstaclePolygons(cfg.MapFile, cfg.MapWidth, cfg.MapHeight)
	}

	grid, err := LoadObstacleImage(cfg.MapFile)
	if err != nil {
		return nil, err
	}
	if cfg.MapWidth > 0 && cfg.MapHeight > 0 {
		if err := checkShape(cfg.MapWidth, cfg.MapHeight, func(x int) int { return len(grid[x]) }, len(grid)); err != nil {
			return nil, fmt.Errorf("map %s: %w", filepath.Base(cfg.MapFile), err)
		}
	}
	return grid, nil
}
