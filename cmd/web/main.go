package main

import "stickywith_backend/internal/app"

func main() {
	app.Run()
}
