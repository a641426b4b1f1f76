package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/opencanteen/mensa/internal/config"
	"github.com/opencanteen/mensa/internal/server"
	"github.com/opencanteen/mensa/pkg/db"
	"github.com/opencanteen/mensa/pkg/log"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		log.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		server.Module,
	)

	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
