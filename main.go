package main

import "github.com/kanekosora-114/Tune-into-English/cmd"

func main() {
	cmd.Execute()
}
