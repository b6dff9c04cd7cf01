package main

import "github.com/soocke/cube-scanner-go/cmd"

func main() {
	cmd.Execute(NewLogger)
}
