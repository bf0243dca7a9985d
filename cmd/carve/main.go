// Command carve generates a maze with Wilson's algorithm and prints it.
//
//	carve -shape 8,12 -seed 42
//	carve -preset cube -trace
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/beka-birhanu/vinom-maze/config"
	logger "github.com/beka-birhanu/vinom-maze/infrastruture/log"
	"github.com/beka-birhanu/vinom-maze/maze"
)

func main() {
	var (
		shapeFlag   = flag.String("shape", "", "comma separated extents, e.g. 10,10")
		presetFlag  = flag.String("preset", "classic", "named shape used when -shape is empty")
		presetsFile = flag.String("presets", "", "YAML file with extra presets")
		seedFlag    = flag.Uint64("seed", 0, "random seed, 0 picks one")
		traceFlag   = flag.Bool("trace", false, "print every carved edge")
	)
	flag.Parse()

	log, err := logger.New("CARVE", config.ColorMagenta, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	shape, err := resolveShape(*shapeFlag, *presetFlag, *presetsFile)
	if err != nil {
		log.Error(err.Error())
		os.Exit(2)
	}

	if err := carve(os.Stdout, shape, *seedFlag, *traceFlag); err != nil {
		log.Error(err.Error())
		os.Exit(1)
	}
}

func resolveShape(raw, preset, presetsFile string) ([]int, error) {
	if raw != "" {
		return parseShape(raw)
	}
	presets, err := config.LoadPresets(presetsFile)
	if err != nil {
		return nil, err
	}
	return presets.Shape(preset)
}

func parseShape(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	shape := make([]int, len(parts))
	for n, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return nil, fmt.Errorf("shape %q: %w", raw, err)
		}
		shape[n] = v
	}
	return shape, nil
}

// carve drives the generator edge by edge and writes the result to w.
func carve(w io.Writer, shape []int, seed uint64, trace bool) error {
	m, err := maze.New(shape...)
	if err != nil {
		return err
	}

	var g *maze.Generator
	if seed == 0 {
		g = maze.NewGenerator(m, nil)
	} else {
		g = maze.NewGenerator(m, maze.NewRand(seed))
	}

	carved := 0
	for e := range g.Edges() {
		if err := m.Open(e); err != nil {
			return err
		}
		carved++
		if trace {
			fmt.Fprintf(w, "%d\t%s\n", carved, e)
		}
	}

	fmt.Fprint(w, m)
	if m.Axes() > 2 {
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "%d cells, %d passages\n", m.Cells(), carved)
	return nil
}
