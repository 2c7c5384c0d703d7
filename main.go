package main

import "github.com/solstice035/health-analytics/internal/cmd"

func main() {
	cmd.Execute()
}
