package main

import "github.com/Yoisaki-Shann/AlmondTachyon/cmd/tracker-cli/cmd"

func main() {
	cmd.Execute()
}
