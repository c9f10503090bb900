// Package main はブログの管理用 CLI（blogctl）のエントリーポイントです。
package main

import "github.com/yourusername/bloghub/cmd/blogctl/commands"

func main() {
	commands.Execute()
}
