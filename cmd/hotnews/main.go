package main

import (
	"os"

	"horse.fit/hotnews/internal/app"
)

func main() {
	os.Exit(app.Run(os.Args[1:]))
}
