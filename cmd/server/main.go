package main

import "salescrm/internal/app"

// @title Sales CRM API
// @version 1.0
// @description Pipelines, stages, leads, deals, invoicing and tasks for a small sales team.

// @host localhost:8080
// @BasePath /
func main() {
	app.Run()
}
