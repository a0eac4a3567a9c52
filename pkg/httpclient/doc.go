// Package httpclient provides a typed Go client for consuming the notes
// REST API.
//
// Create a client with:
//
//	client, err := httpclient.New("http://localhost:8080/api/notes")
//	if err != nil {
//	   panic(err)
//	}
//
// Then use the client to create a note with attachments:
//
//	response, err := client.CreateNote(ctx, schema.NoteMeta{Title: "Shopping"}, files...)
package httpclient
