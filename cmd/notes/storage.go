package main

import (
	"errors"
	"io"
	"net/url"

	// Packages
	units "github.com/docker/go-units"
	notes "github.com/mutablelogic/go-notes"
	aws "github.com/mutablelogic/go-notes/pkg/aws"
	backend "github.com/mutablelogic/go-notes/pkg/backend"
	manager "github.com/mutablelogic/go-notes/pkg/manager"
	provision "github.com/mutablelogic/go-notes/pkg/provision"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
	store "github.com/mutablelogic/go-notes/pkg/store"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

// StorageFlags select the note store, the attachment bucket and its
// constraints. The bucket name is the host of the storage URL.
type StorageFlags struct {
	Database    string   `name:"database" env:"NOTES_DATABASE" help:"PostgreSQL connection URL. Notes are kept in memory when empty."`
	Storage     string   `name:"storage" env:"NOTES_STORAGE" default:"mem://note-attachments" help:"Attachment storage URL (mem://bucket, file://bucket/path, s3://bucket)"`
	S3Endpoint  string   `name:"s3-endpoint" env:"S3_ENDPOINT" help:"S3-compatible endpoint for s3:// storage"`
	Region      string   `name:"region" env:"AWS_REGION" help:"AWS region for s3:// storage"`
	AccessKey   string   `name:"access-key" env:"AWS_ACCESS_KEY_ID" help:"Static access key for s3:// storage"`
	SecretKey   string   `name:"secret-key" env:"AWS_SECRET_ACCESS_KEY" help:"Static secret key for s3:// storage"`
	Public      bool     `name:"public" help:"Create the bucket with public read access"`
	MaxFileSize string   `name:"max-file-size" default:"50MiB" help:"Largest accepted attachment (0 for unlimited)"`
	MimeTypes   []string `name:"mime-type" help:"Accepted attachment content type. May be repeated. Defaults to common document and image types."`
}

type storage interface {
	notes.Storage
	io.Closer
}

// components are the collaborators built from the storage flags. The
// admin and provisioner are only set for s3:// storage.
type components struct {
	store   notes.NoteStore
	storage storage
	admin   notes.BucketAdmin
	prov    *provision.Provisioner
	closers []func() error
}

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

func (flags *StorageFlags) open(app *Globals) (_ *components, err error) {
	c := new(components)
	defer func() {
		if err != nil {
			err = errors.Join(err, c.Close())
		}
	}()

	// Bucket constraints
	config, scheme, err := flags.bucketConfig()
	if err != nil {
		return nil, err
	}

	// Note store
	if flags.Database == "" {
		memory := store.NewMemory()
		c.store = memory
		app.logger.Warn(app.ctx, "no database configured, notes are kept in memory")
	} else if pg, err := store.Open(app.ctx, flags.Database); err != nil {
		return nil, err
	} else {
		c.store = pg
		c.closers = append(c.closers, func() error { pg.Close(); return nil })
	}

	// Attachment storage, with bucket administration for s3://
	opts := []backend.Opt{backend.WithBucketConfig(config)}
	switch scheme {
	case "s3":
		client, err := flags.awsClient(app)
		if err != nil {
			return nil, err
		}
		c.admin = client
		opts = append(opts, backend.WithAWSConfig(client.Config()), backend.WithTracerProvider(app.tracerProvider()))
		if flags.S3Endpoint != "" {
			opts = append(opts, backend.WithEndpoint(flags.S3Endpoint))
		}
	case "file":
		opts = append(opts, backend.WithCreateDir())
	}
	blob, err := backend.NewBlobBackend(app.ctx, flags.Storage, opts...)
	if err != nil {
		return nil, err
	}
	c.storage = blob
	c.closers = append(c.closers, blob.Close)

	// Provisioner
	if c.admin != nil {
		if c.prov, err = provision.New(c.store, c.admin, c.storage,
			provision.WithLogger(app.logger),
			provision.WithTracer(app.tracer()),
			provision.WithBucketConfig(config),
		); err != nil {
			return nil, err
		}
	}

	// Return success
	return c, nil
}

func (c *components) Close() error {
	return closeAll(c.closers...)
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Manager builds a notes manager over the store and storage
func (c *components) Manager(app *Globals) (*manager.Manager, error) {
	return manager.New(c.store, c.storage,
		manager.WithLogger(app.logger),
		manager.WithTracer(app.tracer()),
		manager.WithMeter(app.meter()),
	)
}

// Provisioner returns the bucket provisioner, or an error when the storage
// does not support bucket administration
func (c *components) Provisioner() (*provision.Provisioner, error) {
	if c.prov == nil {
		return nil, httpresponse.ErrNotImplemented.With("Bucket provisioning requires s3:// storage")
	}
	return c.prov, nil
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// bucketConfig returns the bucket constraints and the storage URL scheme
func (flags *StorageFlags) bucketConfig() (schema.BucketConfig, string, error) {
	config := schema.DefaultBucketConfig()
	url, err := url.Parse(flags.Storage)
	if err != nil {
		return config, "", httpresponse.ErrBadRequest.Withf("Invalid storage URL: %v", err)
	}
	config.ID = url.Host
	config.Public = flags.Public
	if flags.MaxFileSize != "" {
		size, err := units.RAMInBytes(flags.MaxFileSize)
		if err != nil {
			return config, "", httpresponse.ErrBadRequest.Withf("Invalid max file size: %v", err)
		} else if size < 0 {
			return config, "", httpresponse.ErrBadRequest.Withf("Invalid max file size: %q", flags.MaxFileSize)
		}
		config.MaxFileSize = size
	}
	if len(flags.MimeTypes) > 0 {
		config.AllowedMimeTypes = flags.MimeTypes
	}
	return config, url.Scheme, nil
}

func (flags *StorageFlags) awsClient(app *Globals) (*aws.Client, error) {
	opts := []aws.Opt{
		aws.WithEndpoint(flags.S3Endpoint),
		aws.WithTracerProvider(app.tracerProvider()),
	}
	if flags.Region != "" {
		opts = append(opts, aws.WithRegion(flags.Region))
	}
	if flags.AccessKey != "" || flags.SecretKey != "" {
		opts = append(opts, aws.WithCredentials(flags.AccessKey, flags.SecretKey))
	}
	return aws.New(app.ctx, opts...)
}
