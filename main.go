package main

import "github.com/step-security/delete-deployment-environment/cmd"

func main() {
	cmd.Execute()
}
