package main

import (
	"context"
	"fmt"
	"net/http"

	// Packages
	httphandler "github.com/mutablelogic/go-notes/pkg/httphandler"
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	version "github.com/mutablelogic/go-notes/pkg/version"
	httprouter "github.com/mutablelogic/go-server/pkg/httprouter"
	httpserver "github.com/mutablelogic/go-server/pkg/httpserver"
	types "github.com/mutablelogic/go-server/pkg/types"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type ServerCommands struct {
	Server RunServerCommand `cmd:"" name:"server" help:"Run HTTP server on the endpoint." group:"SERVER"`
}

type RunServerCommand struct {
	StorageFlags
	Origin    string `name:"origin" default:"*" help:"Allowed cross-origin requests"`
	Provision bool   `name:"provision" help:"Provision the bucket before serving"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *RunServerCommand) Run(ctx *Globals) error {
	c, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()

	// Provision the bucket before accepting uploads
	if cmd.Provision {
		prov, err := c.Provisioner()
		if err != nil {
			return err
		}
		result, err := prov.Provision(ctx.ctx)
		if err != nil {
			return err
		}
		ctx.logger.Info(ctx.ctx, result.Message, "bucket", prov.Bucket().ID)
	}

	// Create the manager
	mgr, err := c.Manager(ctx)
	if err != nil {
		return fmt.Errorf("failed to create manager: %w", err)
	}

	return serve(ctx, c, mgr, cmd.Origin)
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// serve registers HTTP handlers and runs the server until context is done.
func serve(ctx *Globals, c *components, mgr *manager.Manager, origin string) error {
	endpoint, err := ctx.GetEndpoint()
	if err != nil {
		return err
	}
	prefix := types.NormalisePath(endpoint.Path)

	// Create the router
	router, err := httprouter.NewRouter(ctx.ctx, prefix, origin, "notes", version.Version())
	if err != nil {
		return fmt.Errorf("failed to create router: %w", err)
	}

	// Register notes HTTP handlers, with the bucket handlers when the
	// storage can be provisioned
	if err := httphandler.RegisterHandlers(mgr, c.prov, router); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// Create and run the HTTP server
	srv, err := httpserver.New(endpoint.Host, http.Handler(router), nil)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx.logger.Info(ctx.ctx, "notes started", "version", version.Version(), "addr", endpoint.Host, "prefix", prefix)
	if err := srv.Run(ctx.ctx); err != nil {
		return err
	}
	ctx.logger.Info(context.Background(), "notes stopped")
	return nil
}
