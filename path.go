package main

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Path is a snapshot of the best route found so far, start first and goal last
type Path struct {
	Start     Position   `json:"start"`
	Goal      Position   `json:"goal"`
	Waypoints []Position `json:"waypoints"`
	Cost      float64    `json:"cost"`
}

// Found reports whether the path holds any waypoints
func (p Path) Found() bool {
	return len(p.Waypoints) > 0
}

// LineString converts the waypoints into an orb line string
func (p Path) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(p.Waypoints))
	for _, wp := range p.Waypoints {
		ls = append(ls, wp.Point())
	}
	return ls
}

// GeoJSON returns the path as a feature collection with a single line string
func (p Path) GeoJSON() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	feature := geojson.NewFeature(p.LineString())
	feature.Properties["cost"] = p.Cost
	feature.Properties["waypoints"] = len(p.Waypoints)
	fc.Append(feature)
	return fc
}

// WriteText writes the cost, a blank line, then "x,y " pairs on one line
func (p Path) WriteText(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s\n\n", strconv.FormatFloat(p.Cost, 'g', -1, 64))
	for _, wp := range p.Waypoints {
		fmt.Fprintf(bw, "%s,%s ",
			strconv.FormatFloat(wp.X, 'g', -1, 64),
			strconv.FormatFloat(wp.Y, 'g', -1, 64))
	}
	bw.WriteString("\n")
	return bw.Flush()
}

// SavePath writes the text export to filename and a GeoJSON copy next to it
func SavePath(path Path, filename string) error {
	log.Printf("💾 Saving path to %s...\n", filename)

	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create path file: %w", err)
	}
	if err := path.WriteText(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write path: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close path file: %w", err)
	}

	data, err := path.GeoJSON().MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal path: %w", err)
	}
	if err := os.WriteFile(filename+".geojson", data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	log.Printf("   ✅ Path saved (%d waypoints)\n", len(path.Waypoints))
	return nil
}

// TreeGeoJSON renders tree edges as a single multi line string feature
func TreeGeoJSON(edges [][2]Position, bound orb.Bound) *geojson.FeatureCollection {
	mls := make(orb.MultiLineString, 0, len(edges))
	for _, e := range edges {
		mls = append(mls, orb.LineString{e[0].Point(), e[1].Point()})
	}

	fc := geojson.NewFeatureCollection()
	fc.BBox = geojson.NewBBox(bound)
	feature := geojson.NewFeature(mls)
	feature.Properties["edges"] = len(edges)
	fc.Append(feature)
	return fc
}
