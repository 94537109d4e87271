// Command pageinfo computes and displays combined header+data page layouts.
//
// Given header and element shapes it reports the total allocation size,
// alignment, data offset, and padding a Page with those types would use:
//
//	pageinfo -header-size 1 -header-align 1 -elem-size 8 -elem-align 8 -count 4
//
// Run with -i for an interactive view that recomputes as you type.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/irrustible/pages/layout"
)

func main() {
	var (
		headerSize  = flag.Uint("header-size", 8, "Header size in bytes")
		headerAlign = flag.Uint("header-align", 8, "Header alignment in bytes")
		elemSize    = flag.Uint("elem-size", 8, "Data element size in bytes")
		elemAlign   = flag.Uint("elem-align", 8, "Data element alignment in bytes")
		count       = flag.Int("count", 1, "Number of data elements")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode needs a terminal")
			os.Exit(1)
		}
		if err := runInteractive(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*headerSize, *headerAlign, *elemSize, *elemAlign, *count); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(headerSize, headerAlign, elemSize, elemAlign uint, count int) error {
	header := layout.Layout{Size: uintptr(headerSize), Align: uintptr(headerAlign)}
	elem := layout.Layout{Size: uintptr(elemSize), Align: uintptr(elemAlign)}

	pl, err := layout.Compute(header, elem, count)
	if err != nil {
		return err
	}

	fmt.Printf("Header:      %d bytes, align %d\n", header.Size, header.Align)
	fmt.Printf("Element:     %d bytes, align %d\n", elem.Size, elem.Align)
	fmt.Printf("Count:       %d\n", count)
	fmt.Println()
	fmt.Printf("Total size:  %d bytes\n", pl.Size)
	fmt.Printf("Alignment:   %d\n", pl.Align)
	fmt.Printf("Data offset: %d\n", pl.DataOffset)
	fmt.Printf("Pad h->data: %d bytes\n", pl.Padding(header.Size))
	fmt.Printf("Tail pad:    %d bytes\n", pl.Size-pl.DataOffset-uintptr(count)*elem.Size)

	saved := header.Size + elem.Size*uintptr(count)
	if saved > 0 {
		fmt.Printf("\nOne block of %d bytes replaces two allocations totalling %d payload bytes.\n",
			pl.Size, saved)
	}
	return nil
}
