// Command zipwriter streams a directory tree into a ZIP archive using the
// github.com/mosaicward/zipwriter library.
package main

import (
	"log"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
