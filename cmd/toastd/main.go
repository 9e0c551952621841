// Package main provides the CLI entrypoint for toastd.
package main

func main() {
	Execute()
}
