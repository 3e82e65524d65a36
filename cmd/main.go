// cmd/main.go
package main

import (
	"go-finance-api/app"
)

// @title           Go-Finance API
// @version         1.0
// @description     Personal finance tracking API: daily entries, investments and monthly goals.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:4000
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
