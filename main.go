package main

import (
	"os"

	"github.com/GoSafeQ-Admin/GoSafeQ-Admin/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
