/*
	SectorMapper, top-down map renderer for voxel worlds
	Copyright (C) 2022 Maxim Zhuchkov

	This program is free software: you can redistribute it and/or modify
	it under the terms of the GNU Affero General Public License as published
	by the Free Software Foundation, either version 3 of the License, or
	(at your option) any later version.

	This program is distributed in the hope that it will be useful,
	but WITHOUT ANY WARRANTY; without even the implied warranty of
	MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
	GNU Affero General Public License for more details.

	You should have received a copy of the GNU Affero General Public License
	along with this program.  If not, see <https://www.gnu.org/licenses/>.

	Contact me via mail: q3.max.2011@yandex.ru or Discord: MaX#6717
*/

package main

import (
	"flag"
	"fmt"
	"image/color"
	"strings"

	"github.com/maxsupermanhd/SectorMapper/primitives"
	"github.com/maxsupermanhd/SectorMapper/render"
)

var (
	flagInput       string
	flagOutput      = flag.String("o", "map.png", "Output image, format is picked by extension (png, jpg, jpeg)")
	flagColors      = flag.String("colors", "colors.txt", "Color table, lines of \"<hex id> <r> <g> <b>\"")
	flagXMin        = flag.Int("xmin", -primitives.DefaultRadius/primitives.BlockSize, "Western border of rendered area in chunks")
	flagXMax        = flag.Int("xmax", primitives.DefaultRadius/primitives.BlockSize, "Eastern border of rendered area in chunks")
	flagZMin        = flag.Int("zmin", -primitives.DefaultRadius/primitives.BlockSize, "Southern border of rendered area in chunks")
	flagZMax        = flag.Int("zmax", primitives.DefaultRadius/primitives.BlockSize, "Northern border of rendered area in chunks")
	flagBgColor     = flag.String("bgcolor", "white", "Background color")
	flagScaleColor  = flag.String("scalecolor", "black", "Scale ticks and labels color")
	flagOriginColor = flag.String("origincolor", "red", "Origin marker color")
	flagPlayerColor = flag.String("playercolor", "red", "Player markers color")
	flagDrawOrigin  = flag.Bool("draworigin", false, "Mark world origin")
	flagDrawPlayers = flag.Bool("drawplayers", false, "Mark players")
	flagDrawScale   = flag.Bool("drawscale", false, "Draw scale ticks, enables border")
	flagBorder      = flag.Int("border", 0, "Margin on the left and top sides in pixels")
	flagScale       = flag.Float64("scale", 1, "Resize output by this factor")
	flagThreads     = flag.Int("threads", 1, "Sectors resolved in parallel")
	flagServe       = flag.String("serve", "", "Serve maps over http on this address instead of rendering once")
	flagLogs        = flag.String("logs", "", "Log file path")
)

func init() {
	flag.StringVar(&flagInput, "i", "", "World directory")
	flag.StringVar(&flagInput, "input", "", "World directory")
	flag.StringVar(flagOutput, "output", "map.png", "Output image")
}

var flagsSet = map[string]bool{}

func parseFlags() {
	flag.Parse()
	flag.Visit(func(f *flag.Flag) {
		flagsSet[f.Name] = true
	})
}

func isFlagSet(names ...string) bool {
	for _, n := range names {
		if flagsSet[n] {
			return true
		}
	}
	return false
}

type renderSettings struct {
	Input      string
	Output     string
	ColorsPath string
	Box        primitives.BoundingBox
	Opts       render.Options
	Scale      float64
	Threads    int
}

// settingsFromFlags merges command line with "render" config
// section, explicitly set flags win.
func settingsFromFlags() (renderSettings, error) {
	rc := cfg.SubTree("render")
	rs := renderSettings{
		Input:      flagInput,
		Output:     *flagOutput,
		ColorsPath: *flagColors,
		Box:        primitives.DefaultBoundingBox(),
		Opts:       render.DefaultOptions(),
		Scale:      *flagScale,
		Threads:    *flagThreads,
	}
	if !isFlagSet("i", "input") {
		rs.Input = rc.GetDSString(rs.Input, "input")
	}
	if !isFlagSet("o", "output") {
		rs.Output = rc.GetDSString(rs.Output, "output")
	}
	if !isFlagSet("colors") {
		rs.ColorsPath = rc.GetDSString(rs.ColorsPath, "colors")
	}
	if !isFlagSet("threads") {
		rs.Threads = rc.GetDSInt(rs.Threads, "threads")
	}
	boxFlags := []struct {
		name string
		flag *int
		dst  *int
	}{
		{"xmin", flagXMin, &rs.Box.XMin},
		{"xmax", flagXMax, &rs.Box.XMax},
		{"zmin", flagZMin, &rs.Box.ZMin},
		{"zmax", flagZMax, &rs.Box.ZMax},
	}
	for _, b := range boxFlags {
		if isFlagSet(b.name) {
			*b.dst = *b.flag
		} else {
			*b.dst = rc.GetDSInt(*b.dst, b.name)
		}
	}
	colorFlags := []struct {
		name string
		flag *string
		dst  *color.RGBA
	}{
		{"bgcolor", flagBgColor, &rs.Opts.Background},
		{"scalecolor", flagScaleColor, &rs.Opts.ScaleColor},
		{"origincolor", flagOriginColor, &rs.Opts.OriginColor},
		{"playercolor", flagPlayerColor, &rs.Opts.PlayerColor},
	}
	for _, c := range colorFlags {
		s := *c.flag
		if !isFlagSet(c.name) {
			s = rc.GetDSString(s, c.name)
		}
		v, err := parseColor(s)
		if err != nil {
			return rs, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.dst = v
	}
	rs.Opts.DrawOrigin = boolSetting(rc.GetDSBool(false, "draworigin"), "draworigin", *flagDrawOrigin)
	rs.Opts.DrawPlayers = boolSetting(rc.GetDSBool(false, "drawplayers"), "drawplayers", *flagDrawPlayers)
	rs.Opts.DrawScale = boolSetting(rc.GetDSBool(false, "drawscale"), "drawscale", *flagDrawScale)
	switch {
	case isFlagSet("border"):
		rs.Opts.Border = *flagBorder
	case rs.Opts.DrawScale:
		rs.Opts.Border = rc.GetDSInt(render.ScaleBorder, "border")
	default:
		rs.Opts.Border = rc.GetDSInt(0, "border")
	}
	if !isFlagSet("scale") {
		rs.Scale = float64(rc.GetDSInt(100, "scalePercent")) / 100
	}
	if rs.Box.XMin > rs.Box.XMax || rs.Box.ZMin > rs.Box.ZMax {
		return rs, fmt.Errorf("empty bounding box %s", rs.Box.String())
	}
	if rs.Opts.Border < 0 {
		return rs, fmt.Errorf("negative border %d", rs.Opts.Border)
	}
	if rs.Scale <= 0 {
		return rs, fmt.Errorf("scale must be positive, got %v", rs.Scale)
	}
	if rs.Threads < 1 {
		rs.Threads = 1
	}
	return rs, nil
}

func boolSetting(fromConfig bool, name string, fromFlag bool) bool {
	if isFlagSet(name) {
		return fromFlag
	}
	return fromConfig
}

func serveAddr() string {
	if isFlagSet("serve") {
		return *flagServe
	}
	return cfg.GetDSString(*flagServe, "web", "listen_addr")
}

var namedColors = map[string]color.RGBA{
	"black": {A: 255},
	"white": {R: 255, G: 255, B: 255, A: 255},
	"red":   {R: 255, A: 255},
	"green": {G: 128, A: 255},
	"blue":  {B: 255, A: 255},
	"gray":  {R: 128, G: 128, B: 128, A: 255},
	"grey":  {R: 128, G: 128, B: 128, A: 255},
}

// parseColor accepts #rrggbb or one of namedColors.
func parseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if c, ok := namedColors[s]; ok {
		return c, nil
	}
	c := color.RGBA{A: 255}
	if len(s) != 7 || s[0] != '#' {
		return c, fmt.Errorf("bad color %q", s)
	}
	_, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	if err != nil {
		return c, fmt.Errorf("bad color %q: %w", s, err)
	}
	return c, nil
}
