package main

import "github.com/EmpoweredVote/blog-backend/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
