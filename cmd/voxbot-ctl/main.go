package main

import (
	"fmt"
	"os"

	cli "github.com/spf13/pflag"

	"voxbot/internal/ipc"
)

func main() {
	socket := cli.StringP("socket", "s", ipc.DefaultSocketPath, "Control socket path")
	cli.Parse()

	cmd := ipc.CmdStop
	if cli.NArg() > 0 {
		cmd = cli.Arg(0)
	}

	if err := ipc.SendCommand(*socket, cmd); err != nil {
		fmt.Println("voxbot not running:", err)
		os.Exit(1)
	}
}
