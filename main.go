// The main package for the rag-crawler executable.
package main

import (
	"github.com/ibtikar-org-tr/rag-crawler/cmd"
)

func main() {
	cmd.Execute()
}
