package main

import (
	"fmt"
	"os"

	"github.com/Rizviblue/rapid-courier-pro/internal/app"
)

func main() {
	if err := app.Run(os.Stdout, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "courierpro: %v\n", err)
		os.Exit(1)
	}
}
