package main

import "github.com/cytzrs/share-sub001/internal/cli"

func main() {
	cli.Execute()
}
