/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package main

import "github.com/Team-Techentia/techentia-pdf-formatter/cmd"

func main() {
	cmd.Execute()
}
