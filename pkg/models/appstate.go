package models

import (
	"github.com/doanngocthanh9x/faskapi-ner-address-vietnam/config"
)

// AppState is a struct that holds the state of the application
// Use cmd.NewAppState to create a new instance
type AppState struct {
	Extractor AddressExtractor
	Config    *config.Config
}
