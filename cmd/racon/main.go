// cmd/racon/main.go
package main

import (
	"racon/internal/app"
	"racon/internal/appshell"
)

func main() { appshell.Main(app.RunContext) }
