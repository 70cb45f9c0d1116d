package main

import (
	_ "time/tzdata"

	"github.com/Alijeyrad/gymdesk_backend/cmd"
)

func main() {
	cmd.Execute()
}
