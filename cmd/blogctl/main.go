// Command blogctl runs administrative tasks against the blog database.
package main

import "blogapi/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
