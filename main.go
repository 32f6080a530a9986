/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/masnyjimmy/campaign-validator/cmd"

func main() {
	cmd.Execute()
}
