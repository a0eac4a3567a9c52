package main

import (
	"encoding/json"
	"os"

	// Packages
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type BucketCommands struct {
	Provision ProvisionCommand `cmd:"" group:"BUCKET" help:"Create or update the attachment bucket and check write access."`
	Diagnose  DiagnoseCommand  `cmd:"" group:"BUCKET" help:"Check the database connection and bucket visibility."`
	Repair    RepairCommand    `cmd:"" group:"BUCKET" help:"Diagnose, and create the bucket when none are visible."`
}

// BucketFlags run a bucket command locally against the storage, or on the
// server at the endpoint
type BucketFlags struct {
	StorageFlags
	Remote bool `name:"remote" help:"Run on the server at the endpoint"`
}

type ProvisionCommand struct {
	BucketFlags
}

type DiagnoseCommand struct {
	BucketFlags
}

type RepairCommand struct {
	BucketFlags
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *ProvisionCommand) Run(ctx *Globals) error {
	var result *schema.ProvisionResult
	if cmd.Remote {
		client, err := ctx.Client()
		if err != nil {
			return err
		}
		if result, err = client.Provision(ctx.ctx); err != nil {
			return err
		}
	} else {
		c, err := cmd.open(ctx)
		if err != nil {
			return err
		}
		defer c.Close()
		prov, err := c.Provisioner()
		if err != nil {
			return err
		}

		// The result carries the step log, so write it out before the error
		result, err = prov.Provision(ctx.ctx)
		if result != nil {
			if err := prettyJSON(result); err != nil {
				return err
			}
		}
		return err
	}
	return prettyJSON(result)
}

func (cmd *DiagnoseCommand) Run(ctx *Globals) error {
	if cmd.Remote {
		client, err := ctx.Client()
		if err != nil {
			return err
		}
		diagnosis, err := client.Diagnose(ctx.ctx)
		if err != nil {
			return err
		}
		return prettyJSON(diagnosis)
	}

	c, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	prov, err := c.Provisioner()
	if err != nil {
		return err
	}
	return prettyJSON(prov.Diagnose(ctx.ctx))
}

func (cmd *RepairCommand) Run(ctx *Globals) error {
	if cmd.Remote {
		client, err := ctx.Client()
		if err != nil {
			return err
		}
		result, err := client.Repair(ctx.ctx)
		if err != nil {
			return err
		}
		return prettyJSON(result)
	}

	c, err := cmd.open(ctx)
	if err != nil {
		return err
	}
	defer c.Close()
	prov, err := c.Provisioner()
	if err != nil {
		return err
	}
	return prettyJSON(prov.Repair(ctx.ctx))
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func prettyJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
