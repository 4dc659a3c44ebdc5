package main

import (
	"log"
	"os"
	"strings"

	"github.com/auxroom/auxroom-api/app"
	"github.com/auxroom/auxroom-api/config"
	"github.com/auxroom/auxroom-api/version"
	"gopkg.in/yaml.v3"
)

func main() {
	v := version.Get()
	bytes, err := yaml.Marshal(v)
	if err != nil {
		log.Panicf("marshal version data: %s", err)
	}
	log.Println("version:\n" + string(bytes))
	log.Printf("environment: %s", config.GetEnv())

	a := app.App{}
	a.Initialize()

	addr := config.GetAddr()

	for _, arg := range os.Args {
		if specifiedAddr, ok := strings.CutPrefix(arg, "--addr="); ok {
			addr = specifiedAddr
		}
	}

	a.Run(addr)
}
