// Command intakechat runs the project intake chat.
package main

import "github.com/diogo/intakechat/internal/commands"

func main() {
	commands.Execute()
}
