// Command shaderc compiles the wgui rectangle and glyph pipeline from WGSL to
// a SPIR-V module for WebGPU and Vulkan hosts.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"github.com/go-theft-auto/wgui"
	"github.com/go-theft-auto/wgui/shader"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	var (
		output   = flag.String("o", "rect.spv", "output file")
		wgsl     = flag.Bool("wgsl", false, "write the WGSL source instead")
		logLevel = flag.String("log-level", "info", "log level: debug, info, warn, error")
	)
	flag.Parse()
	wgui.SetLogLevel(wgui.ResolveLogLevel(*logLevel))

	if *wgsl {
		return os.WriteFile(*output, []byte(shader.WGSL), 0o644)
	}
	words, err := shader.SPIRV()
	if err != nil {
		return err
	}
	buf := make([]byte, 0, len(words)*4)
	for _, w := range words {
		buf = binary.LittleEndian.AppendUint32(buf, w)
	}
	if err := os.WriteFile(*output, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", *output, err)
	}
	wgui.Logger().Info("spir-v written", "path", *output, "words", len(words))
	return nil
}
