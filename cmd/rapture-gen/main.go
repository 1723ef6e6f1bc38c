package main

import (
	"log"

	"github.com/jaffee/commandeer"
	"github.com/jgrabenstein/RaptureTutorials/gen"
)

func main() {
	if err := commandeer.Run(gen.NewMain()); err != nil {
		log.Fatal(err)
	}
}
