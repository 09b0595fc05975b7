package main

import "github.com/roadwatch/road-risk-dashboard/cmd"

func main() {
	cmd.Execute()
}
