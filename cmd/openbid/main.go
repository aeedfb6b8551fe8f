package main

import "openbid/app"

func main() {
	app.Run()
}
