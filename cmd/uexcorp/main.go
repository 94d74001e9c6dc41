package main

import (
	"github.com/andrescamacho/uexcorp-go/internal/adapters/cli"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/bootstrap"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cli.Execute(bootstrap.LocalClientFactory(version))
}
