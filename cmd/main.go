package main

import (
	"github.com/corray333/backend-labs/lanchonete/internal/app"
	"github.com/corray333/backend-labs/lanchonete/internal/config"
)

func main() {
	config.MustInit()
	app.MustNewApp().Run()
}
