// Command inspect dumps the structure of descriptor files: blocks,
// skeleton frames, skin and costume declarations, and what each costume
// identifier resolves to. Debugging aid for descriptor authoring.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"figure-assembler/internal/attach"
	"figure-assembler/internal/descriptor"
	"figure-assembler/internal/diag"
	"figure-assembler/internal/registry"
	"figure-assembler/internal/skeleton"
)

func main() {
	verbose := flag.Bool("v", false, "Also list every block with its line count")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: inspect [-v] <descriptor.TXT> ...")
		os.Exit(1)
	}

	exitCode := 0
	for _, arg := range flag.Args() {
		if err := inspect(arg, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "Error %s: %v\n", arg, err)
			exitCode = 1
		}
	}
	os.Exit(exitCode)
}

func inspect(path string, verbose bool) error {
	d, err := descriptor.Load(path)
	if err != nil {
		return err
	}

	collector := diag.NewCollector()
	reg := registry.New()

	fmt.Printf("\n=== %s (%d blocks) ===\n", path, len(d.Order))

	if verbose {
		for _, name := range d.Order {
			fmt.Printf("  <%s>: %d lines\n", name, len(d.Blocks[name]))
		}
	}

	bones := skeleton.ParseFrame(d, collector)
	fmt.Printf("--- Skeleton: %d bones ---\n", len(bones))
	names := make([]string, 0, len(bones))
	for n := range bones {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		b := bones[n]
		fmt.Printf("  %-16s parent=%-16s t=(%.2f,%.2f,%.2f)\n",
			n, orRoot(b.Parent), b.Translation[0], b.Translation[1], b.Translation[2])
	}

	resolver := attach.NewResolver(d, reg, collector)

	skins := attach.ParseSkinEntries(d)
	fmt.Printf("--- Skin: %d entries ---\n", len(skins))
	for _, s := range skins {
		atts, mesh := resolver.Resolve(s.Identifier)
		conn := ""
		if mesh != nil {
			conn = fmt.Sprintf(" connector=%dv/%df", len(mesh.Vertices), len(mesh.Faces))
		}
		fmt.Printf("  [%s] %s: %d attachments%s\n", s.OccupancyRaw, s.Identifier, len(atts), conn)
	}

	costumes := attach.ParseDefaultCos(d)
	fmt.Printf("--- Costume: %d items ---\n", len(costumes))
	for _, full := range costumes {
		ci, ok := resolver.ResolveCostume(full)
		if !ok {
			fmt.Printf("  %s: UNRESOLVED\n", full)
			continue
		}
		conn := ""
		if ci.Mesh != nil {
			conn = fmt.Sprintf(" connector=%dv/%df", len(ci.Mesh.Vertices), len(ci.Mesh.Faces))
		}
		fmt.Printf("  %s -> %s [%s]: %d attachments%s\n",
			full, ci.Source, ci.OccupancyRaw, len(ci.Attachments), conn)
	}

	if events := collector.Events(); len(events) > 0 {
		fmt.Printf("--- Diagnostics: %d ---\n", len(events))
		for _, e := range events {
			fmt.Printf("  [%s] %s: %s\n", e.Kind, e.Source, e.Detail)
		}
	}

	return nil
}

func orRoot(parent string) string {
	if parent == "" {
		return "(root)"
	}
	return parent
}
