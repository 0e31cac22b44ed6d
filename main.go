package main

import (
	"os"

	"github.com/leadengine/leadengine/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
