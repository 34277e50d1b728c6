package main

import "github.com/Terry7788/caloric-intake-calculator/cmd/caltrack"

func main() {
	caltrack.Execute()
}
