package main

import (
	"github.com/backoffice/app/cmd"
)

// @title Back Office Accounts API
// @version 1.0
// @description User-account backend with email verification and password reset.

// @host  localhost:8000
// @BasePath /users

func main() {
	cmd.StartApp()
}
