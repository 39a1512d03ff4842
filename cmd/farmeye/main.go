package main

import "github.com/farmeye-dev/farmeye/internal/cli"

func main() {
	cli.Execute()
}
