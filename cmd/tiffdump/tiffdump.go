// Command tiffdump prints every field of every image file directory in a
// TIFF file, as parsed by github.com/google/tiff.
//
//	tiffdump out.tif
package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/google/tiff"
)

func endianString(magicEndian string) string {
	if magicEndian == tiff.MagicBigEndian {
		return "big endian"
	}
	return "little endian"
}

type readAtSeeker interface {
	io.ReadSeeker
	io.ReaderAt
}

func dump(w io.Writer, r readAtSeeker) error {
	t, err := tiff.Parse(r, nil, nil)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Version: %d\n", t.Version())
	fmt.Fprintf(w, "Byte Order: %s\n\n", endianString(t.Order()))

	for i, ifd := range t.IFDs() {
		fmt.Fprintf(w, "IFD %d (%d entries):\n", i, ifd.NumEntries())
		for _, f := range ifd.Fields() {
			fmt.Fprintf(w, "%s\n", f)
		}
	}

	return nil
}

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: tiffdump file.tif")
		os.Exit(2)
	}

	r, err := os.Open(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	tiff.SetTiffFieldPrintFullFieldValue(true)

	if err := dump(os.Stdout, r); err != nil {
		log.Fatalf("%s: %v", os.Args[1], err)
	}
}
