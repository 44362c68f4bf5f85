package main

import "github.com/CIRA18-HUB/sales-dashboard/internal/cli"

func main() {
	cli.Execute()
}
