// Package main provides the CLI entrypoint for toastframe.
package main

func main() {
	Execute()
}
