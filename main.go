package main

import "github.com/cybersecurity-and-programming/Office-Macro-Forensic-Analyzer/cmd"

func main() {
	cmd.Execute()
}
