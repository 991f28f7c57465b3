package main

import (
	"fmt"

	"github.com/HerbHall/powerparts/internal/version"
)

func runVersion() {
	fmt.Println(version.Get())
}
