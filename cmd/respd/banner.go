package main

import "fmt"

const banner = `
 respd - an in-memory RESP data server
`

func printBanner(port int, adminAddr string) {
	fmt.Print(banner)
	fmt.Printf(" listening on :%d", port)
	if adminAddr != "" {
		fmt.Printf(", admin on %s", adminAddr)
	}
	fmt.Println()
}
