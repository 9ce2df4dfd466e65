package main

import "github.com/amellor/streamstats/cmd"

func main() {
	cmd.Execute()
}
