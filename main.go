package main

import "github.com/chrisdamba/customsim/cmd"

func main() {
	cmd.Execute()
}
