// objtool is a CLI utility for inspecting and converting Wavefront OBJ
// models.
package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/Faultbox/objkit/internal/config"
	"github.com/Faultbox/objkit/internal/convert"
	"github.com/Faultbox/objkit/internal/logger"
	"github.com/Faultbox/objkit/pkg/wavefront"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "info":
		cmdInfo(args)
	case "validate", "check":
		cmdValidate(args)
	case "mtl":
		cmdMtl(args)
	case "gltf", "convert":
		cmdGltf(args)
	case "config":
		cmdConfig(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`objtool - Wavefront OBJ model utility

Usage:
  objtool <command> [options]

Commands:
  info <model.obj>               Show model information
  validate <file>...             Check files for format errors
  mtl <lib.mtl>                  List materials in a library
  gltf [options] <model.obj>     Convert a model to glTF 2.0
  config <init|show>             Manage the objtool config file

Examples:
  objtool info teapot.obj
  objtool validate teapot.obj
  objtool mtl teapot.mtl
  objtool gltf -mtl teapot.mtl -o out teapot.obj
  objtool gltf -b teapot.obj`)
}

func fail(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool info <model.obj>")
		os.Exit(1)
	}

	meshes, err := wavefront.ParseOBJFile(args[0])
	if err != nil {
		fail("%v", err)
	}

	var totalVerts, totalTris int
	for _, m := range meshes {
		totalVerts += m.VertexCount()
		totalTris += m.TriangleCount()
	}

	fmt.Printf("Model:     %s\n", args[0])
	fmt.Printf("Meshes:    %d\n", len(meshes))
	fmt.Printf("Vertices:  %d\n", totalVerts)
	fmt.Printf("Triangles: %d\n", totalTris)
	fmt.Println()

	for i, m := range meshes {
		name := m.Material
		if name == "" {
			name = "(default)"
		}
		fmt.Printf("  mesh %d: material=%s layout=%s vertices=%d triangles=%d\n",
			i, name, m.Layout, m.VertexCount(), m.TriangleCount())
	}
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool validate <model.obj|lib.mtl>...")
		os.Exit(1)
	}

	failed := 0
	for _, path := range args {
		var err error
		switch strings.ToLower(filepath.Ext(path)) {
		case ".mtl":
			_, err = wavefront.ParseMTLFile(path)
		default:
			_, err = wavefront.ParseOBJFile(path)
		}

		if err == nil {
			fmt.Printf("%s: OK\n", path)
			continue
		}

		kind := "error"
		switch {
		case errors.Is(err, wavefront.ErrUnsupportedCommand):
			kind = "unsupported command"
		case errors.Is(err, wavefront.ErrInvalidFile):
			kind = "invalid file"
		case errors.Is(err, wavefront.ErrOutOfMemory):
			kind = "too large"
		case errors.Is(err, wavefront.ErrIO):
			kind = "io error"
		}
		fmt.Fprintf(os.Stderr, "%s: %s: %v\n", path, kind, err)
		failed++
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func cmdMtl(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool mtl <lib.mtl>")
		os.Exit(1)
	}

	materials, err := wavefront.ParseMTLFile(args[0])
	if err != nil {
		fail("%v", err)
	}

	fmt.Printf("Library:   %s\n", args[0])
	fmt.Printf("Materials: %d\n", len(materials))
	fmt.Println()

	for _, m := range materials {
		fmt.Printf("  %s\n", m.Name)
		fmt.Printf("    diffuse=%v specular=%v opacity=%.2f exponent=%.1f\n",
			m.Diffuse, m.Specular, m.Opacity, m.SpecularExp)
		for _, tex := range []struct{ label, path string }{
			{"map_Ka", m.AmbientMap},
			{"map_Kd", m.DiffuseMap},
			{"map_Ks", m.SpecularMap},
			{"map_Bump", m.BumpMap},
		} {
			if tex.path != "" {
				fmt.Printf("    %-8s %s\n", tex.label, tex.path)
			}
		}
	}
}

func cmdGltf(args []string) {
	fs := flag.NewFlagSet("gltf", flag.ExitOnError)
	mtlPath := fs.String("mtl", "", "Material library to apply")
	outDir := fs.String("o", "", "Output directory (default from config)")
	binary := fs.Bool("b", false, "Write binary .glb instead of .gltf")
	configPath := fs.String("config", "", "Path to config file")
	debug := fs.Bool("debug", false, "Enable debug logging")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool gltf [-mtl lib.mtl] [-o dir] [-b] <model.obj>")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fail("%v", err)
	}
	if *debug {
		cfg.Logging.Level = "debug"
	}
	if *outDir != "" {
		cfg.Convert.OutputDir = *outDir
	}
	if *binary {
		cfg.Convert.Binary = true
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fail("%v", err)
	}
	defer logger.Sync()

	objPath := fs.Arg(0)
	meshes, err := wavefront.ParseOBJFile(objPath)
	if err != nil {
		logger.Fatal("parsing model", zap.String("path", objPath), zap.Error(err))
	}
	logger.Debug("parsed model",
		zap.String("path", objPath),
		zap.Int("meshes", len(meshes)))

	var materials []*wavefront.Material
	if *mtlPath != "" {
		materials, err = wavefront.ParseMTLFile(*mtlPath)
		if err != nil {
			logger.Fatal("parsing material library", zap.String("path", *mtlPath), zap.Error(err))
		}
		logger.Debug("parsed material library",
			zap.String("path", *mtlPath),
			zap.Int("materials", len(materials)))
	}

	doc, err := convert.BuildDocument(meshes, materials)
	if err != nil {
		logger.Fatal("building glTF document", zap.Error(err))
	}

	ext := ".gltf"
	if cfg.Convert.Binary {
		ext = ".glb"
	}
	base := strings.TrimSuffix(filepath.Base(objPath), filepath.Ext(objPath))
	outPath := filepath.Join(cfg.Convert.OutputDir, base+ext)

	if err := os.MkdirAll(cfg.Convert.OutputDir, 0755); err != nil {
		logger.Fatal("creating output directory", zap.Error(err))
	}
	if err := convert.Write(doc, outPath, cfg.Convert.Binary); err != nil {
		logger.Fatal("writing glTF", zap.String("path", outPath), zap.Error(err))
	}

	fmt.Printf("Wrote %s\n", outPath)
}

func cmdConfig(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: objtool config <init|show>")
		os.Exit(1)
	}

	switch args[0] {
	case "init":
		cfg := config.Default()
		if err := cfg.Save(); err != nil {
			fail("%v", err)
		}
		fmt.Printf("Wrote %s\n", filepath.Join(config.ConfigDir(), "config.yaml"))
	case "show":
		cfg, err := config.Load("")
		if err != nil {
			fail("%v", err)
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fail("%v", err)
		}
		os.Stdout.Write(data)
	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		os.Exit(1)
	}
}
