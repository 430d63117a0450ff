package main

import "github.com/MdSadiqMd/udp-sender/internal/cli"

func main() {
	cli.Execute()
}
