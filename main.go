package main

import "github.com/anurag-chiplunkar/chatline/cmd/server"

func main() {
	server.NewServer().Run()
}
