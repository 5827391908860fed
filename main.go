package main

import (
	cmd "github.com/doanngocthanh9x/faskapi-ner-address-vietnam/cmd/addrner"
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/internal"
)

var log = internal.GetLogger()

func main() {
	log.Info("Starting address NER service")
	cmd.Execute()
}
