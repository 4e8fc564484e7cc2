//go:build tinygo

package main

import (
	"fxiso/app"
	"fxiso/hal"
)

func main() {
	app.Run(hal.New())
}
