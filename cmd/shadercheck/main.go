// Command shadercheck compiles WGSL shaders to SPIR-V without a GPU and
// reports the result. With no arguments it checks the built-in
// normal-mapping shader.
//
// With -reference it instead shades a grid of points on the normal-mapping
// quad on the host and logs the expected colors.
package main

import (
	"encoding/binary"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/normalmap-demo/internal/config"
	"github.com/Faultbox/normalmap-demo/internal/engine/shader"
	"github.com/Faultbox/normalmap-demo/internal/logger"
)

func main() {
	out := flag.String("o", "", "Write SPIR-V of the last shader to this file")
	verbose := flag.Bool("v", false, "Verbose output")
	refMode := flag.Bool("reference", false, "Log host-shaded reference colors for the quad")
	elapsed := flag.Float64("t", 0, "Elapsed seconds for -reference")
	width := flag.Int("width", 1024, "Viewport width for -reference")
	height := flag.Int("height", 768, "Viewport height for -reference")
	diffusePath := flag.String("diffuse", "", "Diffuse texture for -reference")
	normalPath := flag.String("normal", "", "Normal map for -reference")
	flag.Parse()

	level := "info"
	if *verbose {
		level = "debug"
	}
	if err := logger.Init(level, ""); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *refMode {
		sc := config.Default().Scene
		sc.DiffuseTexture = *diffusePath
		sc.NormalTexture = *normalPath
		if err := runReference(sc, *width, *height, float32(*elapsed)); err != nil {
			logger.Fatal("reference shading failed", zap.Error(err))
		}
		return
	}

	type source struct{ name, code string }
	var sources []source
	if flag.NArg() == 0 {
		sources = append(sources, source{"normalmap.wgsl (built-in)", shader.NormalMapWGSL})
	}
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Fatal("reading shader", zap.String("path", path), zap.Error(err))
		}
		sources = append(sources, source{path, string(data)})
	}

	failed := 0
	var last []uint32
	for _, src := range sources {
		words, err := shader.CompileWGSL(src.code)
		if err != nil {
			logger.Error("compile failed", zap.String("shader", src.name), zap.Error(err))
			failed++
			continue
		}
		logger.Info("compiled",
			zap.String("shader", src.name),
			zap.Int("words", len(words)),
		)
		last = words
	}

	if *out != "" && last != nil {
		buf := make([]byte, len(last)*4)
		for i, w := range last {
			binary.LittleEndian.PutUint32(buf[i*4:], w)
		}
		if err := os.WriteFile(*out, buf, 0644); err != nil {
			logger.Fatal("writing SPIR-V", zap.Error(err))
		}
		logger.Info("SPIR-V written", zap.String("file", *out))
	}

	if failed > 0 {
		logger.Sync()
		os.Exit(1)
	}
}
