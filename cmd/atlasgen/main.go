// Command atlasgen builds the signed distance field atlas of a TrueType or
// OpenType font and writes the cache files wgui loads at startup.
//
//	atlasgen -font Inter.ttf -out cache -size 96 -png
//
// writes cache/Inter-96.bin (raw RGBA8) and, with -png, cache/Inter-96.png.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-theft-auto/wgui"
	"github.com/go-theft-auto/wgui/atlas"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	def := atlas.DefaultOptions()
	var (
		fontPath = flag.String("font", "", "path to a .ttf or .otf file (required)")
		outDir   = flag.String("out", ".", "output directory")
		size     = flag.Int("size", def.FontSize, "rasterization size in pixels")
		gap      = flag.Int("gap", def.Gap, "padding around each glyph in pixels")
		radius   = flag.Float64("radius", def.Radius, "distance field radius in pixels")
		chars    = flag.String("charset", "", "characters to include (default Latin-1)")
		preview  = flag.Bool("png", false, "also write a PNG preview")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	wgui.SetLogLevel(wgui.ResolveLogLevel(*logLevel))

	if *fontPath == "" {
		flag.Usage()
		return &wgui.ConfigError{Field: "font", Reason: "required"}
	}
	opts := atlas.Options{FontSize: *size, Gap: *gap, Radius: *radius, Charset: def.Charset}
	if *chars != "" {
		opts.Charset = []rune(*chars)
	}

	ttf, err := os.ReadFile(*fontPath)
	if err != nil {
		return fmt.Errorf("read font: %w", err)
	}
	a, err := atlas.Build(ttf, opts)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	name := filepath.Join(*outDir, atlas.CacheName(*fontPath, opts))
	if err := atlas.WriteBin(a, name+".bin"); err != nil {
		return err
	}
	fmt.Printf("%s.bin  %dx%d  %s\n", name, a.Size(), a.Size(), a.Name())
	if *preview {
		if err := atlas.WritePreview(a, name+".png"); err != nil {
			return err
		}
		fmt.Printf("%s.png\n", name)
	}
	return nil
}
