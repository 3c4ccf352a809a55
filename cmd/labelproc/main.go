package main

import "github.com/Raincor5/kitchen-system/cmd/labelproc/cmd"

func main() {
	cmd.Execute()
}
