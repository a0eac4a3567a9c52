package main

import (
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"text/tabwriter"

	// Packages
	attachment "github.com/mutablelogic/go-notes/pkg/attachment"
	schema "github.com/mutablelogic/go-notes/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type NoteCommands struct {
	Note NoteCommand `cmd:"" group:"NOTE" help:"Manage notes on the server at the endpoint."`
}

type NoteCommand struct {
	Create   NoteCreateCommand   `cmd:"" help:"Create a note, uploading files as attachments."`
	Get      NoteGetCommand      `cmd:"" help:"Show a note and its attachments."`
	Delete   NoteDeleteCommand   `cmd:"" help:"Delete a note and its attachments."`
	Download NoteDownloadCommand `cmd:"" help:"Download an attachment of a note."`
}

type NoteCreateCommand struct {
	Title string   `arg:"" name:"title" help:"Note title"`
	Files []string `arg:"" name:"file" help:"Files to attach" optional:"" type:"existingfile"`
	Body  string   `name:"body" short:"b" help:"Note body"`
}

type NoteGetCommand struct {
	ID string `arg:"" name:"id" help:"Note identifier"`
}

type NoteDeleteCommand struct {
	ID string `arg:"" name:"id" help:"Note identifier"`
}

type NoteDownloadCommand struct {
	ID     string `arg:"" name:"id" help:"Note identifier"`
	File   string `arg:"" name:"file" help:"Attachment file name"`
	Output string `name:"output" short:"o" help:"Write to file instead of stdout"`
}

///////////////////////////////////////////////////////////////////////////////
// COMMANDS

func (cmd *NoteCreateCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}

	// Stage the files in the order given
	files := make([]schema.StagedFile, 0, len(cmd.Files))
	for _, path := range cmd.Files {
		file, err := stagedFile(path)
		if err != nil {
			return err
		}
		files = append(files, file)
	}

	resp, err := c.CreateNote(ctx.ctx, schema.NoteMeta{Title: cmd.Title, Body: cmd.Body}, files...)
	if err != nil {
		return err
	}
	if ctx.Debug {
		return prettyJSON(resp)
	}

	fmt.Fprintf(os.Stdout, "%s  %s\n", resp.Note.ID, resp.Note.Title)
	if len(resp.Uploads.Results) == 0 {
		return nil
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, result := range resp.Uploads.Results {
		if result.Success {
			fmt.Fprintf(w, "  %s\t%s\t%s\n", result.Name, attachment.FormatSize(result.Size, attachment.HumanSize), result.Path)
		} else {
			fmt.Fprintf(w, "  %s\t%s\tfailed: %s\n", result.Name, attachment.FormatSize(result.Size, attachment.HumanSize), result.Error)
		}
	}
	w.Flush()
	fmt.Fprintf(os.Stdout, "\n  %d uploaded, %d failed\n", resp.Uploads.Succeeded, resp.Uploads.Failed)
	return nil
}

func (cmd *NoteGetCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	note, err := c.GetNote(ctx.ctx, cmd.ID)
	if err != nil {
		return err
	}
	if ctx.Debug {
		return prettyJSON(note)
	}
	return printNote(note)
}

func (cmd *NoteDeleteCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	note, err := c.DeleteNote(ctx.ctx, cmd.ID)
	if err != nil {
		return err
	}
	if ctx.Debug {
		return prettyJSON(note)
	}
	fmt.Fprintf(os.Stdout, "%s  %s deleted with %d attachment(s)\n", note.ID, note.Title, len(note.Attachments))
	return nil
}

func (cmd *NoteDownloadCommand) Run(ctx *Globals) error {
	c, err := ctx.Client()
	if err != nil {
		return err
	}
	var out io.Writer = os.Stdout
	var outFile *os.File
	if cmd.Output != "" {
		outFile, err = os.Create(cmd.Output)
		if err != nil {
			return err
		}
		out = outFile
	}
	_, err = c.ReadAttachment(ctx.ctx, cmd.ID, cmd.File, func(chunk []byte) error {
		_, err := out.Write(chunk)
		return err
	})
	if outFile != nil {
		outFile.Close()
		if err != nil {
			os.Remove(cmd.Output)
		}
	}
	return err
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// stagedFile reads a local file, typing it from the extension
func stagedFile(path string) (schema.StagedFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return schema.StagedFile{}, err
	}
	return schema.StagedFile{
		Name:        filepath.Base(path),
		Size:        int64(len(data)),
		ContentType: mime.TypeByExtension(filepath.Ext(path)),
		Data:        data,
	}, nil
}

func printNote(note *schema.Note) error {
	fmt.Fprintf(os.Stdout, "%s  %s\n", note.ID, note.Title)
	if note.Body != "" {
		fmt.Fprintf(os.Stdout, "\n%s\n", note.Body)
	}
	if len(note.Attachments) == 0 {
		return nil
	}
	fmt.Fprintln(os.Stdout)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, a := range note.Attachments {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", a.Name, attachment.FormatSize(a.Size, attachment.HumanSize), a.ContentType, filepath.Base(a.Path))
	}
	w.Flush()
	fmt.Fprintf(os.Stdout, "\n  %d attachment(s)\n", len(note.Attachments))
	return nil
}
