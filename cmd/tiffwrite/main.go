// Command tiffwrite converts PNG, JPEG, GIF, BMP and WebP images into a single
// TIFF file with one image file directory per input.
//
//	tiffwrite -o out.tif -c lzw scan1.png scan2.png
//	tiffwrite -o s3://bucket/scans/out.tif --planar photo.jpg
//
// Every flag can also be set in $HOME/.tiffwrite.yaml or through a
// TIFFWRITE_<FLAG> environment variable.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
