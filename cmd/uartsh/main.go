package main

import (
	"github.com/robotalks/softuart/pkg/cli/sh"
	"github.com/robotalks/softuart/pkg/env"
	"github.com/robotalks/softuart/pkg/softuart"

	_ "github.com/robotalks/softuart/pkg/cli/cmds/tx"
)

//go-build: CGO_ENABLED=0

func init() {
	softuart.SetupFlags()
	env.SetupFlags()
}

func main() {
	sh.Main()
}
