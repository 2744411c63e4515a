package main

import "github.com/forPelevin/videin/internal/cli"

func main() { cli.Main() }
