// Command katalog serves the catalog taxonomy admin interface.
package main

import "github.com/erazemk/katalog/cmd/katalog/cmd"

func main() {
	cmd.Execute()
}
