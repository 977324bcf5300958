package main

import (
	"os"

	"github.com/clinic-crm/clinic-crm/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
