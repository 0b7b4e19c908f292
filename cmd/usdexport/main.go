// usdexport is a CLI utility that flattens YAML-described polygonal meshes
// into a glTF scene, including material and geometry-subset bindings.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/Faultbox/usdexport/internal/config"
	"github.com/Faultbox/usdexport/internal/logger"
	"github.com/Faultbox/usdexport/pkg/export"
	"github.com/Faultbox/usdexport/pkg/gltfsink"
	"github.com/Faultbox/usdexport/pkg/mesh"
	"github.com/Faultbox/usdexport/pkg/stage"
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
	case "export":
		cmdExport(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`usdexport - mesh scene export utility

Usage:
  usdexport <command> [options]

Commands:
  info <scene.yaml>                       Show scene statistics
  export [-config file] [-o out] <scene.yaml>
                                          Export a scene to glTF/GLB

Examples:
  usdexport info scene.yaml
  usdexport export -o scene.glb scene.yaml
  usdexport export -config usdexport.yaml scene.yaml`)
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: usdexport info <scene.yaml>")
		os.Exit(1)
	}

	scene, err := mesh.LoadScene(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Meshes: %d\n", len(scene.Meshes))
	for _, m := range scene.Meshes {
		creased := 0
		for _, e := range m.Edges {
			if e.Crease != 0 {
				creased++
			}
		}
		fmt.Printf("  %-20s verts=%-6d polys=%-6d loops=%-6d edges=%-6d creased=%-5d slots=%d\n",
			m.Name, len(m.Vertices), len(m.Polygons), len(m.Loops), len(m.Edges), creased, m.SlotCount())
	}
}

func cmdExport(args []string) {
	fs := flag.NewFlagSet("export", flag.ExitOnError)
	configPath := fs.String("config", "", "config file path")
	outPath := fs.String("o", "", "output file (.gltf or .glb)")
	_ = fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: usdexport export [-config file] [-o out] <scene.yaml>")
		os.Exit(1)
	}
	scenePath := fs.Arg(0)

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	scene, err := mesh.LoadScene(scenePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	out := *outPath
	binary := cfg.Export.Binary
	if out == "" {
		out = strings.TrimSuffix(scenePath, ".yaml")
		if binary {
			out += ".glb"
		} else {
			out += ".gltf"
		}
	} else {
		binary = strings.HasSuffix(out, ".glb")
	}

	if err := runExport(scene, cfg, out, binary); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", out)
}

// runExport writes every mesh of the scene at every configured time sample.
// Materials and subsets are bound while the first frame is written; the
// session skips binding for the rest.
func runExport(scene *mesh.Scene, cfg *config.Config, out string, binary bool) error {
	sink := gltfsink.NewStage()

	current := stage.Default()
	session := export.NewSession(sink, func() stage.TimeCode { return current })
	writer := export.NewWriter(session)

	prims := make([]*gltfsink.Prim, len(scene.Meshes))
	for i, m := range scene.Meshes {
		prims[i] = sink.DefineMesh(cfg.Export.RootPath + "/" + stage.SanitizeName(m.Name))
	}

	frames := cfg.Export.Frames
	if len(frames) == 0 {
		frames = []float64{0}
		current = stage.Default()
	}

	for fi, frame := range frames {
		if len(cfg.Export.Frames) > 0 {
			current = stage.At(frame)
		}
		for i, m := range scene.Meshes {
			if err := writer.WriteMesh(export.StaticSource{Mesh: m}, prims[i]); err != nil {
				return fmt.Errorf("exporting mesh %q: %w", m.Name, err)
			}
		}
		if fi == 0 {
			session.MarkFrameWritten()
		}
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	return sink.Encode(f, binary)
}
